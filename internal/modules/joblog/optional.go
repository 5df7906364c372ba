package joblog

import (
	"bytes"
	"encoding/json"
)

// OptionalString distinguishes a missing JSON field (Set=false) from an
// explicit null (Set=true, Value=nil).
type OptionalString struct {
	Set   bool
	Value *string
}

// Some returns a set OptionalString holding v.
func Some(v string) OptionalString { return OptionalString{Set: true, Value: &v} }

// Null returns a set OptionalString that clears the field.
func Null() OptionalString { return OptionalString{Set: true} }

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// apply returns the field value after the patch is applied to current.
func (o OptionalString) apply(current *string) *string {
	if !o.Set {
		return current
	}
	return o.Value
}

// Empty reports whether the patch changes nothing.
func (p PatchRequest) Empty() bool {
	return !p.LogDate.Set && !p.LogTime.Set
}

// Apply returns the slot that results from applying p to current.
func (p PatchRequest) Apply(current Slot) Slot {
	return Slot{
		LogDate: p.LogDate.apply(current.LogDate),
		LogTime: p.LogTime.apply(current.LogTime),
	}
}

// MarshalJSON emits only the fields that are set.
func (p PatchRequest) MarshalJSON() ([]byte, error) {
	body := make(map[string]OptionalString, 2)
	if p.LogDate.Set {
		body["logDate"] = p.LogDate
	}
	if p.LogTime.Set {
		body["logTime"] = p.LogTime
	}
	return json.Marshal(body)
}

// PatchFromSlot builds a patch that sets both fields to s.
func PatchFromSlot(s Slot) PatchRequest {
	return PatchRequest{
		LogDate: OptionalString{Set: true, Value: s.LogDate},
		LogTime: OptionalString{Set: true, Value: s.LogTime},
	}
}
