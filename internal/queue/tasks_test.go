package queue

import (
	"encoding/json"
	"testing"

	"knowledgebase-backend/models"
)

func TestNewRegenerateTaskPayload(t *testing.T) {
	task, err := NewRegenerateTask(models.CollectionProfiles, "ada-lovelace")
	if err != nil {
		t.Fatalf("task error: %v", err)
	}
	if task.Type() != TaskRegenerateEmbeddings {
		t.Errorf("task type %q", task.Type())
	}

	var payload RegeneratePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("payload unmarshal: %v", err)
	}
	if payload.Collection != "profiles" || payload.Slug != "ada-lovelace" {
		t.Errorf("payload = %+v", payload)
	}
}
