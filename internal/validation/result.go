package validation

import "encoding/json"

// Result collects validation failures keyed by JSON field name. The zero
// value is a valid, empty result.
type Result struct {
	fields   map[string][]string
	messages []string
}

func (r *Result) Add(field, message string) {
	if r.fields == nil {
		r.fields = make(map[string][]string)
	}
	r.fields[field] = append(r.fields[field], message)
	r.messages = append(r.messages, message)
}

func (r Result) IsValid() bool {
	return len(r.messages) == 0
}

// Field returns the messages recorded for one field.
func (r Result) Field(name string) []string {
	return r.fields[name]
}

// Messages returns every message in the order the rules ran.
func (r Result) Messages() []string {
	return append([]string(nil), r.messages...)
}

func (r Result) Fields() map[string][]string {
	out := make(map[string][]string, len(r.fields))
	for k, v := range r.fields {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Valid  bool                `json:"valid"`
		Errors map[string][]string `json:"errors"`
	}{
		Valid:  r.IsValid(),
		Errors: r.Fields(),
	})
}
