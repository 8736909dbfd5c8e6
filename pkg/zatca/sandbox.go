package zatca

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// sandboxClient clears every submission locally. It produces a deterministic
// reference and content hash so the rest of the compliance workflow can be
// exercised without network access.
type sandboxClient struct{}

// NewSandboxClient creates a client for development and testing environments.
func NewSandboxClient() Client {
	return &sandboxClient{}
}

// NewClient picks the sandbox or HTTP client based on cfg.Env.
func NewClient(cfg Config) Client {
	if cfg.Env == "production" {
		return NewHTTPClient(cfg)
	}
	return NewSandboxClient()
}

func (c *sandboxClient) Submit(_ context.Context, snapshot InvoiceSnapshot) (*SubmissionResult, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("zatca: failed to encode invoice: %w", err)
	}
	sum := sha256.Sum256(payload)
	hash := hex.EncodeToString(sum[:])

	return &SubmissionResult{
		ReferenceID: "SANDBOX-" + hash[:16],
		InvoiceHash: hash,
		Cleared:     true,
	}, nil
}
