package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
)

// ErrUnsupportedFormValue is returned when a multipart field holds a value
// that cannot be written as a form part.
var ErrUnsupportedFormValue = errors.New("unsupported form value")

// Form is a set of multipart fields keyed by field name.
//
// Values may be a string, []string, fmt.Stringer, File, *File or []byte.
// A []byte is sent as a file part named after the field.
type Form map[string]any

// File is a multipart file part.
type File struct {
	// Name is the filename reported in Content-Disposition.
	Name string
	// ContentType defaults to application/octet-stream when empty.
	ContentType string
	Reader      io.Reader
}

// FormFrom converts the map shapes accepted for uploads into a Form.
func FormFrom(v any) (Form, error) {
	switch f := v.(type) {
	case Form:
		return f, nil
	case map[string]any:
		return Form(f), nil
	case map[string]string:
		form := make(Form, len(f))
		for k, s := range f {
			form[k] = s
		}
		return form, nil
	case url.Values:
		form := make(Form, len(f))
		for k, s := range f {
			form[k] = s
		}
		return form, nil
	default:
		return nil, fmt.Errorf("%w: form body of type %T", ErrUnsupportedFormValue, v)
	}
}

// multipartFields flattens the form into resty fields, sorted by name so the
// encoded body is deterministic.
func (f Form) multipartFields() ([]*resty.MultipartField, error) {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]*resty.MultipartField, 0, len(names))
	for _, name := range names {
		parts, err := formParts(name, f[name])
		if err != nil {
			return nil, err
		}
		fields = append(fields, parts...)
	}
	return fields, nil
}

func formParts(name string, value any) ([]*resty.MultipartField, error) {
	switch v := value.(type) {
	case string:
		return []*resty.MultipartField{textField(name, v)}, nil
	case []string:
		parts := make([]*resty.MultipartField, 0, len(v))
		for _, s := range v {
			parts = append(parts, textField(name, s))
		}
		return parts, nil
	case File:
		return formParts(name, &v)
	case *File:
		if v == nil || v.Reader == nil {
			return nil, fmt.Errorf("%w: field %q has no reader", ErrUnsupportedFormValue, name)
		}
		return []*resty.MultipartField{fileField(name, v)}, nil
	case []byte:
		return []*resty.MultipartField{fileField(name, &File{Name: name, Reader: bytes.NewReader(v)})}, nil
	case fmt.Stringer:
		return []*resty.MultipartField{textField(name, v.String())}, nil
	default:
		return nil, fmt.Errorf("%w: field %q has type %T", ErrUnsupportedFormValue, name, value)
	}
}

func textField(name, value string) *resty.MultipartField {
	return &resty.MultipartField{
		Param:  name,
		Reader: strings.NewReader(value),
	}
}

func fileField(name string, f *File) *resty.MultipartField {
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	fileName := f.Name
	if fileName == "" {
		fileName = name
	}
	return &resty.MultipartField{
		Param:       name,
		FileName:    fileName,
		ContentType: contentType,
		Reader:      f.Reader,
	}
}
