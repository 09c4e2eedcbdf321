// Package chord names a set of pitch classes. Every candidate root is scored
// by how plausibly the remaining classes build a chord on it (third, fifth,
// seventh, extensions) and the best score wins.
package chord

import (
	"math"
	"strings"

	"github.com/jsphweid/harmonline/model"
)

// intervals above a candidate root, in 12-step semitones
const (
	minorSecond   = 1
	majorSecond   = 2
	minorThird    = 3
	majorThird    = 4
	perfectFourth = 5
	tritone       = 6
	perfectFifth  = 7
	minorSixth    = 8
	majorSixth    = 9
	minorSeventh  = 10
	majorSeventh  = 11
)

// Naming is one candidate reading of a chord. Certainty is only comparable
// with other namings of the same chord.
type Naming struct {
	Root      int
	Suffix    string
	Certainty int
}

// Label renders the naming with its root spelled in key, e.g. "Am7".
func (n Naming) Label(key *model.Key) (string, error) {
	if key == nil {
		key = model.DefaultKey()
	}
	rootName, err := key.NoteName(n.Root)
	if err != nil {
		return "", err
	}
	return rootName + n.Suffix, nil
}

// analysis accumulates the reading of one chord over one candidate root.
type analysis struct {
	c    *model.Chord
	root int
	// intervals explained by the chord's quality, excluded from later checks
	used      map[int]bool
	certainty int

	quality string
	seventh string
	sus     string
	shell   string
	added   []string
	colors  []string
	altered []string
}

func (a *analysis) has(iv int) bool {
	return a.c.Contains(a.root + iv)
}

func (a *analysis) free(iv int) bool {
	return a.has(iv) && !a.used[iv]
}

func (a *analysis) take(iv, points int) {
	a.used[iv] = true
	a.certainty += points
}

func nameForRoot(c *model.Chord, r int) Naming {
	a := &analysis{c: c, root: c.Modulus().Class(r), used: make(map[int]bool)}
	if a.has(0) {
		a.take(0, 10)
	}
	switch {
	case a.has(majorThird):
		a.majorTriad()
	case a.has(minorThird):
		a.minorTriad()
	default:
		a.thirdless()
	}
	return Naming{Root: a.root, Suffix: a.suffix(), Certainty: a.certainty}
}

func (a *analysis) majorTriad() {
	a.take(majorThird, 10)
	switch {
	case a.has(perfectFifth):
		a.take(perfectFifth, 8)
	case a.has(minorSixth):
		a.take(minorSixth, 7)
		a.quality = "+"
	case a.has(tritone):
		// left free so the alterations label it b5
		a.certainty += 1
	}
	a.sevenths()
}

func (a *analysis) minorTriad() {
	a.take(minorThird, 10)
	a.quality = "m"
	switch {
	case a.has(perfectFifth):
		a.take(perfectFifth, 8)
	case a.has(tritone) && a.has(majorSixth):
		a.diminishedSeventh()
		return
	case a.has(minorSixth):
		// left free so the alterations label it #5
		a.certainty += 7
	case a.has(tritone):
		a.take(tritone, 5)
		a.quality = "o"
	}
	a.sevenths()
}

// diminishedSeventh handles the symmetric chord before the generic seventh
// naming can read its diminished seventh as a sixth or thirteenth.
func (a *analysis) diminishedSeventh() {
	a.take(tritone, 8)
	a.take(majorSixth, 0)
	a.quality = "o7"
	for _, color := range []struct {
		iv   int
		name string
	}{
		{majorSecond, "9"},
		{perfectFourth, "11"},
		{minorSixth, "b13"},
		{majorSeventh, "maj7"},
	} {
		if a.free(color.iv) {
			a.take(color.iv, 1)
			a.colors = append(a.colors, color.name)
		}
	}
	a.alterations()
}

func (a *analysis) thirdless() {
	switch {
	case a.has(perfectFourth):
		a.take(perfectFourth, 7)
		a.sus = "sus4"
	case a.has(majorSecond):
		a.take(majorSecond, 7)
		a.sus = "sus2"
	}
	switch {
	case a.has(perfectFifth):
		a.take(perfectFifth, 8)
		if a.sus == "" {
			a.shell = "5"
		}
	case a.sus == "":
		a.shell = "no345"
	}
	a.sevenths()
}

// sevenths names the seventh or sixth and the extensions stacked on it.
func (a *analysis) sevenths() {
	switch {
	case a.free(minorSeventh):
		a.take(minorSeventh, 5)
		a.seventh = "7"
	case a.free(majorSeventh):
		a.take(majorSeventh, 5)
		a.seventh = "maj7"
	}

	if a.seventh != "" {
		// the highest extension present names the chord
		ext := ""
		if a.free(majorSecond) {
			a.take(majorSecond, 1)
			ext = "9"
		}
		if a.free(perfectFourth) {
			a.take(perfectFourth, 1)
			ext = "11"
		}
		if a.free(majorSixth) {
			a.take(majorSixth, 1)
			ext = "13"
		}
		if ext != "" {
			a.seventh = strings.TrimSuffix(a.seventh, "7") + ext
		}
	} else {
		if a.free(majorSixth) {
			a.take(majorSixth, 2)
			a.seventh = "6"
			if a.free(majorSecond) {
				a.take(majorSecond, 1)
				a.seventh = "6/9"
			}
		}
		if a.free(majorSecond) {
			a.take(majorSecond, 1)
			a.added = append(a.added, "add9")
		}
		if a.free(perfectFourth) {
			a.take(perfectFourth, 1)
			a.added = append(a.added, "add11")
		}
	}
	a.alterations()
}

// alterations appends, in this fixed order, #11/b5, b13/#5, #9 and b9. They
// name the chord more precisely without adding certainty.
func (a *analysis) alterations() {
	if a.free(tritone) {
		if a.has(perfectFifth) {
			a.altered = append(a.altered, "#11")
		} else {
			a.altered = append(a.altered, "b5")
		}
	}
	if a.free(minorSixth) {
		if a.has(perfectFifth) {
			a.altered = append(a.altered, "b13")
		} else {
			a.altered = append(a.altered, "#5")
		}
	}
	if a.free(minorThird) && a.has(majorThird) {
		a.altered = append(a.altered, "#9")
	}
	if a.free(minorSecond) {
		a.altered = append(a.altered, "b9")
	}
}

func (a *analysis) suffix() string {
	var b strings.Builder
	quality := a.quality
	if quality == "o" && a.seventh != "" && a.seventh[0] != 'm' {
		// diminished triad with a minor seventh
		quality = "ø"
	}
	b.WriteString(quality)
	b.WriteString(a.seventh)
	b.WriteString(a.sus)
	switch {
	case a.shell == "5" && a.seventh != "":
		b.WriteString("no3")
	case a.shell != "":
		b.WriteString(a.shell)
	}
	for _, s := range a.added {
		b.WriteString(s)
	}
	for _, s := range a.colors {
		b.WriteString("(" + s + ")")
	}
	for _, s := range a.altered {
		b.WriteString(s)
	}
	return b.String()
}

// Namer evaluates candidate roots. With IncludeShells every class of the
// modulus is a candidate, which can find roots implied but not sounded.
type Namer struct {
	Registry      *model.Registry
	IncludeShells bool
}

var defaultNamer = &Namer{Registry: model.NewRegistry()}

// NameForRoot reads c as a chord on root r.
func (n *Namer) NameForRoot(c *model.Chord, r int) Naming {
	return nameForRoot(c, r)
}

func (n *Namer) candidates(c *model.Chord) []int {
	var res []int
	if n.IncludeShells {
		reg := n.Registry
		if reg == nil {
			reg = defaultNamer.Registry
		}
		res = reg.Chromatic(c.Modulus()).Classes()
	} else {
		res = c.Classes()
	}
	if root, ok := c.Root(); ok && !contains(res, root) {
		res = append(res, root)
	}
	if len(res) == 0 {
		res = append(res, 0)
	}
	return res
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// GuessRootAndName returns the best-scoring candidate. Candidates are tried
// in ascending class order and the first maximum wins ties.
func (n *Namer) GuessRootAndName(c *model.Chord) Naming {
	best := Naming{Certainty: math.MinInt}
	for _, r := range n.candidates(c) {
		if nm := nameForRoot(c, r); nm.Certainty > best.Certainty {
			best = nm
		}
	}
	return best
}

func GuessRootAndName(c *model.Chord) Naming {
	return defaultNamer.GuessRootAndName(c)
}

func NameForRoot(c *model.Chord, r int) Naming {
	return defaultNamer.NameForRoot(c, r)
}
