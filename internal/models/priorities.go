package models

import (
	"encoding/json"

	"github.com/julianstephens/wth/internal/constants"
)

// Priorities is the fixed six slot MYBED list for one day. Unset slots are "".
type Priorities [constants.PriorityCount]string

// Filled returns how many slots hold text.
func (p Priorities) Filled() int {
	n := 0
	for _, item := range p {
		if item != "" {
			n++
		}
	}
	return n
}

func (p Priorities) MarshalJSON() ([]byte, error) {
	return json.Marshal([constants.PriorityCount]string(p))
}

// UnmarshalJSON pads short arrays with "" and drops items past the sixth.
func (p *Priorities) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	var out Priorities
	copy(out[:], items)
	*p = out
	return nil
}
