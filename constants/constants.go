package constants

import "os"

// GetConfigPath returns the config file named by HARMONLINE_CONFIG, or ""
// when none is set.
func GetConfigPath() string {
	return os.Getenv("HARMONLINE_CONFIG")
}

// GetAddr returns HARMONLINE_ADDR, falling back to def.
func GetAddr(def string) string {
	addr := os.Getenv("HARMONLINE_ADDR")
	if addr != "" {
		return addr
	}
	return def
}

const DefaultAddr = ":8080"

// DefaultSettleMillis is how long held keys must stay unchanged before a
// live chord is reported.
const DefaultSettleMillis = 30

const DefaultLogLevel = "info"
