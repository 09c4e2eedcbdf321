package model

type NameRequest struct {
	Pitches []int  `json:"pitches"`
	Root    *int   `json:"root,omitempty"`
	Shells  bool   `json:"shells,omitempty"`
	Key     string `json:"key,omitempty"`
}

type NameResponse struct {
	Pitches   []int  `json:"pitches"`
	Root      int    `json:"root"`
	RootName  string `json:"root_name"`
	Suffix    string `json:"suffix"`
	Name      string `json:"name"`
	Certainty int    `json:"certainty"`
}

type LikelihoodsRequest struct {
	Pitches    []int  `json:"pitches"`
	Candidates []int  `json:"candidates,omitempty"`
	Root       *int   `json:"root,omitempty"`
	Key        string `json:"key,omitempty"`
}

type Bucket struct {
	Certainty int      `json:"certainty"`
	Names     []string `json:"names"`
}

type LikelihoodsResponse struct {
	Buckets []Bucket `json:"buckets"`
}

type NamedPitch struct {
	Pitch int    `json:"pitch"`
	Name  string `json:"name"`
}

// SpellRequest names Pitches after Key, or after Reference when given.
type SpellRequest struct {
	Pitches   []int        `json:"pitches"`
	Key       string       `json:"key,omitempty"`
	Reference []NamedPitch `json:"reference,omitempty"`
}

type SpellResponse struct {
	Names []NamedPitch `json:"names"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

// LiveUpdate is pushed to websocket clients whenever the held keys settle.
type LiveUpdate struct {
	Pitches []NamedPitch `json:"pitches"`
	Chord   string       `json:"chord"`
	Buckets []Bucket     `json:"buckets,omitempty"`
}
