package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func writePublishersFile(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}
	return file
}

func TestLoadRegistryYAML(t *testing.T) {
	file := writePublishersFile(t, "publishers.yaml", `
publishers:
  - id: vault-events
    type: sqs
    sqs:
      uri: https://sqs.us-east-1.amazonaws.com/123/vault-events
      region: us-east-1
  - id: webhook
    type: http
    enabled: false
    http:
      url: https://hooks.example/vaults
`)

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}

	if got := len(reg.All()); got != 2 {
		t.Fatalf("expected 2 publishers, got %d", got)
	}

	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "vault-events" {
		t.Fatalf("unexpected enabled set: %#v", enabled)
	}

	cfg, ok := reg.ByID("vault-events")
	if !ok || cfg.SQS == nil {
		t.Fatalf("vault-events publisher not loaded: %#v", cfg)
	}
	if cfg.SQS.Region != "us-east-1" {
		t.Fatalf("unexpected region: %s", cfg.SQS.Region)
	}

	hook, _ := reg.ByID("webhook")
	if hook.HTTP.Method != "POST" {
		t.Fatalf("http method should default to POST, got %s", hook.HTTP.Method)
	}
	if hook.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("http timeout should default, got %d", hook.HTTP.TimeoutSeconds)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	file := writePublishersFile(t, "publishers.json", `{
  "publishers": [
    {
      "id": "topic",
      "type": "sns",
      "sns": {"topic_arn": "arn:aws:sns:us-east-1:123:vaults", "region": "us-east-1"}
    },
    {
      "id": "gcp",
      "type": "gcppubsub",
      "gcp": {"project_id": "proj", "topic": "vaults"}
    }
  ]
}`)

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}
	if got := len(reg.Enabled()); got != 2 {
		t.Fatalf("expected 2 enabled publishers, got %d", got)
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	file := writePublishersFile(t, "publishers.yaml", `
publishers:
  - id: duplicate
    type: http
    http:
      url: https://p1.example
  - id: duplicate
    type: http
    http:
      url: https://p2.example
`)

	if _, err := LoadRegistry(file); err == nil {
		t.Fatalf("expected duplicate publisher error, got nil")
	}
}

func TestLoadRegistryValidatesRequiredFields(t *testing.T) {
	cases := map[string]string{
		"sqs missing region": `
publishers:
  - id: q
    type: sqs
    sqs:
      uri: https://sqs.example/queue
`,
		"sns missing topic": `
publishers:
  - id: t
    type: sns
    sns:
      region: us-east-1
`,
		"gcp missing project": `
publishers:
  - id: g
    type: gcppubsub
    gcp:
      topic: vaults
`,
		"http missing url": `
publishers:
  - id: h
    type: http
    http:
      method: POST
`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			file := writePublishersFile(t, "publishers.yaml", content)
			if _, err := LoadRegistry(file); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
