// Command gocardless issues raw requests against the GoCardless API.
//
//	gocardless get /customers --query limit=10
//	gocardless post /customers --data '{"customers":{"email":"a@example.com"}}'
//	gocardless post /documents --form type=proof --form document=@bill.pdf
//	gocardless get /documents/DOC1/file --file --output doc.pdf
//
// The access token is read from --token or GOCARDLESS_ACCESS_TOKEN; a .env
// file in the working directory is loaded first when present.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args[1:], DefaultConfig()); err != nil {
		fatal("%v", err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
