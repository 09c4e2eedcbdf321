package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsphweid/harmonline/chord"
	"github.com/jsphweid/harmonline/model"
	"github.com/jsphweid/harmonline/pitch"
	"github.com/jsphweid/harmonline/spell"
)

// registry is shared by every request this process serves.
var registry = model.NewRegistry()

// parsePitches reads pitches given as integers (middle C = 0) or as names
// with an octave, like "C4" or "Bb3".
func parsePitches(args []string) ([]int, error) {
	var res []int
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			if field == "" {
				continue
			}
			p, err := parsePitch(field)
			if err != nil {
				return nil, err
			}
			res = append(res, p)
		}
	}
	return res, nil
}

func parsePitch(s string) (int, error) {
	if p, err := strconv.Atoi(s); err == nil {
		return p, nil
	}
	i := strings.IndexAny(s, "-0123456789")
	if i <= 0 {
		return 0, fmt.Errorf("%w: %q needs an octave", pitch.ErrInvalidNoteName, s)
	}
	octave, err := strconv.Atoi(s[i:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", pitch.ErrInvalidNoteName, s)
	}
	l, acc, err := pitch.ParseName(s[:i])
	if err != nil {
		return 0, err
	}
	// B#3 sounds as C4: the octave belongs to the letter
	return (octave-4)*12 + l.Natural() + acc, nil
}

// keyOrDefault parses name, falling back to the configured key.
func keyOrDefault(name string) (*model.Key, error) {
	if name != "" {
		return model.ParseKey(name)
	}
	return cfg.DefaultKey()
}

func nameChord(req model.NameRequest) (model.NameResponse, error) {
	key, err := keyOrDefault(req.Key)
	if err != nil {
		return model.NameResponse{}, err
	}
	c := model.NewChord(pitch.Default, req.Pitches...)
	namer := &chord.Namer{Registry: registry, IncludeShells: req.Shells || cfg.IncludeShells}

	var nm chord.Naming
	if req.Root != nil {
		c.SetRoot(*req.Root)
		nm = namer.NameForRoot(c, *req.Root)
	} else {
		nm = namer.GuessRootAndName(c)
	}
	rootName, err := key.NoteName(nm.Root)
	if err != nil {
		return model.NameResponse{}, err
	}
	return model.NameResponse{
		Pitches:   c.Classes(),
		Root:      nm.Root,
		RootName:  rootName,
		Suffix:    nm.Suffix,
		Name:      rootName + nm.Suffix,
		Certainty: nm.Certainty,
	}, nil
}

func likelihoods(req model.LikelihoodsRequest) (model.LikelihoodsResponse, error) {
	key, err := keyOrDefault(req.Key)
	if err != nil {
		return model.LikelihoodsResponse{}, err
	}
	c := model.NewChord(pitch.Default, req.Pitches...)
	if req.Root != nil {
		c.SetRoot(*req.Root)
	}
	namer := &chord.Namer{Registry: registry, IncludeShells: cfg.IncludeShells}
	buckets, err := namer.RootLikelihoodsAndNames(req.Candidates, c, key)
	if err != nil {
		return model.LikelihoodsResponse{}, err
	}
	return model.LikelihoodsResponse{Buckets: buckets}, nil
}

// spellPitches names req.Pitches after its reference when one is given,
// otherwise after its key.
func spellPitches(req model.SpellRequest) (model.SpellResponse, error) {
	target := model.NewPitchSet(req.Pitches...)
	if len(req.Reference) > 0 {
		ref := model.NewPitchSet()
		for _, np := range req.Reference {
			ref.Add(np.Pitch)
		}
		names := make([]string, ref.Len())
		for _, np := range req.Reference {
			i := indexOf(ref.Pitches(), np.Pitch)
			names[i] = np.Name
		}
		if err := ref.SetNoteNames(names); err != nil {
			return model.SpellResponse{}, err
		}
		if err := spell.FillNames(target, ref, pitch.Default); err != nil {
			return model.SpellResponse{}, err
		}
	} else {
		key, err := keyOrDefault(req.Key)
		if err != nil {
			return model.SpellResponse{}, err
		}
		if err := spell.FillNamesFromKey(target, key); err != nil {
			return model.SpellResponse{}, err
		}
	}

	res := model.SpellResponse{Names: []model.NamedPitch{}}
	names := target.NoteNames()
	for i, p := range target.Pitches() {
		res.Names = append(res.Names, model.NamedPitch{Pitch: p, Name: names[i]})
	}
	return res, nil
}

func indexOf(xs []int, x int) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}
