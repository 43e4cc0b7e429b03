package event

import "encoding/json"

type Event interface {
	Op() string
}

type EventRequest struct {
	Op   string          `json:"o"`
	Data json.RawMessage `json:"d"`
}

func New(ev Event) (*EventRequest, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}

	return &EventRequest{Op: ev.Op(), Data: data}, nil
}

func (r *EventRequest) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func Unmarshal(b []byte) (*EventRequest, error) {
	var req EventRequest
	if err := json.Unmarshal(b, &req); err != nil {
		return nil, err
	}

	return &req, nil
}
