package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	gocardless "github.com/gocardless-go/client-go"
)

func newGetCmd(cfg Config, flags *globalFlags) *cobra.Command {
	var (
		query  []string
		asFile bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "get PATH",
		Short: "GET a resource; --file downloads raw bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseQuery(query)
			if err != nil {
				return err
			}
			client, err := newClient(cfg, flags)
			if err != nil {
				return err
			}

			var opts []gocardless.RequestOption
			if asFile {
				opts = append(opts, gocardless.AsFile())
			}
			resp, err := client.Get(cmd.Context(), args[0], values, opts...)
			if err != nil {
				return reportError(cfg, err)
			}
			if asFile {
				return writeRaw(cfg, output, resp.Body)
			}
			return writeJSON(cfg, resp)
		},
	}
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&asFile, "file", false, "download the response as raw bytes")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write a --file download here instead of stdout")
	return cmd
}

func newPostCmd(cfg Config, flags *globalFlags) *cobra.Command {
	var (
		data           string
		form           []string
		idempotencyKey string
	)

	cmd := &cobra.Command{
		Use:   "post PATH",
		Short: "POST a JSON body, or a multipart form with --form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if data != "" && len(form) > 0 {
				return errors.New("--data and --form are mutually exclusive")
			}

			var (
				body any
				opts []gocardless.RequestOption
			)
			if len(form) > 0 {
				f, closeFiles, err := parseForm(form)
				if err != nil {
					return err
				}
				defer closeFiles()
				body = f
				opts = append(opts, gocardless.AsFile())
			} else {
				raw, err := readData(cfg, data)
				if err != nil {
					return err
				}
				if raw != nil {
					body = raw
				}
			}

			if idempotencyKey == "" {
				idempotencyKey = uuid.NewString()
			}
			opts = append(opts, gocardless.WithIdempotencyKey(idempotencyKey))

			client, err := newClient(cfg, flags)
			if err != nil {
				return err
			}
			resp, err := client.Post(cmd.Context(), args[0], body, opts...)
			if err != nil {
				return reportError(cfg, err)
			}
			return writeJSON(cfg, resp)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON body, @file to read a file, or - for stdin")
	cmd.Flags().StringArrayVarP(&form, "form", "F", nil, "multipart field as key=value or key=@path (repeatable)")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency-Key header (default: a random UUID)")
	return cmd
}

func newPutCmd(cfg Config, flags *globalFlags) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "put PATH",
		Short: "PUT a JSON body; an empty body is sent as {}",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readData(cfg, data)
			if err != nil {
				return err
			}
			var body any
			if raw != nil {
				body = raw
			}

			client, err := newClient(cfg, flags)
			if err != nil {
				return err
			}
			resp, err := client.Put(cmd.Context(), args[0], body)
			if err != nil {
				return reportError(cfg, err)
			}
			return writeJSON(cfg, resp)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON body, @file to read a file, or - for stdin")
	return cmd
}

func newDeleteCmd(cfg Config, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "delete PATH",
		Aliases: []string{"del"},
		Short:   "DELETE a resource",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cfg, flags)
			if err != nil {
				return err
			}
			resp, err := client.Del(cmd.Context(), args[0])
			if err != nil {
				return reportError(cfg, err)
			}
			return writeJSON(cfg, resp)
		},
	}
}

// reportError prints the raw body of API errors to stderr and returns err.
func reportError(cfg Config, err error) error {
	var apiErr *gocardless.APIError
	if errors.As(err, &apiErr) && len(apiErr.Body) > 0 {
		fmt.Fprintln(cfg.Stderr, string(apiErr.Body))
	}
	return err
}

func writeJSON(cfg Config, resp *gocardless.Response) error {
	if resp.Data == nil {
		return nil
	}
	enc := json.NewEncoder(cfg.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp.Data)
}

func writeRaw(cfg Config, output string, data []byte) error {
	var w io.Writer = cfg.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}
	_, err := w.Write(data)
	return err
}
