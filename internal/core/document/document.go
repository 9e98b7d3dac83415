package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/eumalin/ai-knowledge-hub/config"
	"github.com/eumalin/ai-knowledge-hub/pkg/logger"
)

// Document is a caller-supplied text to answer questions against. It is
// immutable for the duration of a request and never persisted. CreatedAt is
// an opaque label, neither parsed nor validated.
type Document struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	// Source optionally names an s3://bucket/key object to load Content
	// from at request time when Content is empty.
	Source string `json:"source,omitempty"`
}

// ResolveContent fills in Content for documents that reference an external
// source. Documents with inline content pass through untouched.
func ResolveContent(ctx context.Context, docs []Document) ([]Document, error) {
	out := make([]Document, len(docs))
	copy(out, docs)

	for i := range out {
		if out[i].Content != "" || out[i].Source == "" {
			continue
		}
		if !strings.HasPrefix(out[i].Source, "s3://") {
			return nil, fmt.Errorf("unsupported document source %q", out[i].Source)
		}
		text, err := LoadS3Text(ctx, out[i].Source)
		if err != nil {
			logger.Error(err, "%v: load source failed: %s", config.ModuleDocument, out[i].Source)
			return nil, err
		}
		out[i].Content = text
	}
	return out, nil
}
