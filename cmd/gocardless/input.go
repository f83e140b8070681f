package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	gocardless "github.com/gocardless-go/client-go"
)

// parseQuery turns key=value pairs into query values.
func parseQuery(pairs []string) (url.Values, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	values := url.Values{}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid query %q: want key=value", pair)
		}
		values.Add(k, v)
	}
	return values, nil
}

// readData resolves a --data flag: inline JSON, @path, or - for stdin.
// An empty flag yields nil.
func readData(cfg Config, data string) (json.RawMessage, error) {
	if data == "" {
		return nil, nil
	}

	var raw []byte
	switch {
	case data == "-":
		b, err := io.ReadAll(cfg.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		raw = b
	case strings.HasPrefix(data, "@"):
		b, err := os.ReadFile(data[1:])
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", data[1:], err)
		}
		raw = b
	default:
		raw = []byte(data)
	}

	if !json.Valid(raw) {
		return nil, fmt.Errorf("--data is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

// parseForm turns key=value and key=@path pairs into a multipart form.
// The returned func closes any opened files.
func parseForm(pairs []string) (gocardless.Form, func(), error) {
	form := gocardless.Form{}
	var files []*os.File
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			closeAll()
			return nil, nil, fmt.Errorf("invalid form field %q: want key=value or key=@path", pair)
		}

		if strings.HasPrefix(v, "@") {
			path := v[1:]
			f, err := os.Open(path)
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("open %s: %w", path, err)
			}
			files = append(files, f)
			form[k] = &gocardless.File{
				Name:        filepath.Base(path),
				ContentType: mime.TypeByExtension(filepath.Ext(path)),
				Reader:      f,
			}
			continue
		}

		switch existing := form[k].(type) {
		case nil:
			form[k] = v
		case string:
			form[k] = []string{existing, v}
		case []string:
			form[k] = append(existing, v)
		default:
			closeAll()
			return nil, nil, fmt.Errorf("form field %q used for both a file and a value", k)
		}
	}

	return form, closeAll, nil
}
