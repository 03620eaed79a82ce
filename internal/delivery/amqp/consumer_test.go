package amqp

import (
	"testing"

	"github.com/google/uuid"
)

func TestDecodeRejudge(t *testing.T) {
	id := uuid.New()

	msg, err := decodeRejudge([]byte(`{"submission_id":"` + id.String() + `","reason":"judging_timeout"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.SubmissionID != id || msg.Reason != "judging_timeout" {
		t.Errorf("unexpected message %+v", msg)
	}

	for _, body := range []string{`not json`, `{}`, `{"submission_id":"nope"}`} {
		if _, err := decodeRejudge([]byte(body)); err == nil {
			t.Errorf("expected error for %s", body)
		}
	}
}
