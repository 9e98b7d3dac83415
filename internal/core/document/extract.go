package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	s3client "github.com/eumalin/ai-knowledge-hub/pkg/s3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ledongthuc/pdf"
)

// ParseS3URI splits an s3://bucket/key URI.
func ParseS3URI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("not an s3 uri: %q", uri)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 uri: %q", uri)
	}
	return bucket, key, nil
}

// LoadS3Text fetches an object from caller-managed storage and extracts its
// plain text. PDF objects go through the PDF extractor, everything else is
// treated as UTF-8 text.
func LoadS3Text(ctx context.Context, uri string) (string, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return "", err
	}
	cli, err := s3client.GetClient()
	if err != nil {
		return "", err
	}
	out, err := cli.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return "", err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", err
	}

	if strings.HasSuffix(strings.ToLower(key), ".pdf") {
		return ExtractPDFBytes(data)
	}
	return TextFromBytes(data)
}

// ExtractPDF extracts the plain text of a PDF file on disk.
func ExtractPDF(path string) (string, error) {
	f, rdr, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	r, err := rdr.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}

	text := SanitizeText(buf.String())
	if text == "" {
		return "", fmt.Errorf("no text extracted from pdf")
	}
	return text, nil
}

// ExtractPDFBytes writes data to a temp file and extracts its text; the pdf
// library works with file paths.
func ExtractPDFBytes(data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "extract-*.pdf")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	return ExtractPDF(tmp.Name())
}

// TextFromBytes converts raw bytes to sanitized UTF-8 text.
func TextFromBytes(data []byte) (string, error) {
	var content string
	if utf8.Valid(data) {
		content = string(data)
	} else {
		content = string([]rune(string(data)))
	}
	content = SanitizeText(content)
	if content == "" {
		return "", fmt.Errorf("empty content")
	}
	return content, nil
}

// SanitizeText removes the BOM and non-printable runes, keeping common
// whitespace.
func SanitizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\uFEFF' { // BOM
			continue
		}
		if r == unicode.ReplacementChar {
			continue
		}
		if r == '\n' || r == '\t' || r == '\r' {
			// keep
		} else if !unicode.IsPrint(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
