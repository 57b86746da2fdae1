package pipeline

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"

	"sitegen-backend/pkg/api"
)

// resolveAttachments turns attachment references into byte content. A
// malformed data URI or an unreachable URL degrades to empty content with a
// warning; one bad attachment should not sink the whole task.
func (p *Pipeline) resolveAttachments(logger *slog.Logger, refs []api.Attachment) map[string][]byte {
	if len(refs) == 0 {
		return nil
	}

	out := make(map[string][]byte, len(refs))
	for _, ref := range refs {
		if ref.Name == "" {
			logger.Warn("skipping attachment with empty name", "url", ref.URL)
			continue
		}

		if strings.HasPrefix(ref.URL, "data:") {
			content, err := decodeDataURI(ref.URL)
			if err != nil {
				logger.Warn("could not decode attachment data uri", "name", ref.Name, "error", err)
				content = nil
			}
			out[ref.Name] = content
			continue
		}

		out[ref.Name] = p.fetchAttachment(logger, ref)
	}
	return out
}

func (p *Pipeline) fetchAttachment(logger *slog.Logger, ref api.Attachment) []byte {
	res, err := p.fetcher.R().Get(ref.URL)
	if err != nil {
		logger.Warn("could not fetch attachment", "name", ref.Name, "url", ref.URL, "error", err)
		return nil
	}
	if !res.IsSuccess() {
		logger.Warn("attachment fetch returned error status", "name", ref.Name, "url", ref.URL, "status_code", res.StatusCode())
		return nil
	}
	return res.Body()
}

// decodeDataURI decodes the base64 payload of a data:mime/type;base64,...
// URI.
func decodeDataURI(uri string) ([]byte, error) {
	_, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return nil, errors.New("malformed data uri")
	}
	return base64.StdEncoding.DecodeString(payload)
}
