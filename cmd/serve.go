package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/jsphweid/harmonline/model"
)

// maxBody bounds request bodies; a chord is a handful of integers.
const maxBody = 1 << 16

func init() {
	serveCmd.Flags().String("addr", "", "listen address; overrides the config and HARMONLINE_ADDR")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves chord naming and spelling over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Serve.Addr
		}
		slog.Info("serving", "addr", addr)
		return http.ListenAndServe(addr, NewRouter(cfg.Serve.AllowedOrigins))
	},
}

// NewRouter routes the JSON endpoints behind a CORS policy allowing
// origins.
func NewRouter(origins []string) http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/name", HandleName).Methods(http.MethodPost)
	router.HandleFunc("/likelihoods", HandleLikelihoods).Methods(http.MethodPost)
	router.HandleFunc("/spell", HandleSpell).Methods(http.MethodPost)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	router.Use(logRequests)

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}

func HandleName(w http.ResponseWriter, r *http.Request) {
	var req model.NameRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := nameChord(req)
	respond(w, res, err)
}

func HandleLikelihoods(w http.ResponseWriter, r *http.Request) {
	var req model.LikelihoodsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := likelihoods(req)
	respond(w, res, err)
}

func HandleSpell(w http.ResponseWriter, r *http.Request) {
	var req model.SpellRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := spellPitches(req)
	respond(w, res, err)
}

func decode(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("could not unmarshal request body: %w", err)
	}
	return nil
}

// respond writes res, or err as a 400: every failure here comes from the
// request's own pitches, names or key.
func respond(w http.ResponseWriter, res any, err error) {
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		slog.Warn("could not write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		err = fmt.Errorf("malformed json at offset %d", syntaxErr.Offset)
	}
	slog.Debug("request failed", "status", status, "err", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}
