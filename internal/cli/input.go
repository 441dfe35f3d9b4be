package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var errPasswordMismatch = errors.New("passwords do not match")

// getPassword prints prompt to w and reads a line from the terminal without
// echo. A newline is printed after the read to keep the output tidy.
func getPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// getNewPassword asks twice and fails when the answers differ.
func getNewPassword(w io.Writer) (string, error) {
	first, err := getPassword(w, "Enter password: ")
	if err != nil {
		return "", err
	}
	defer clear(first)

	second, err := getPassword(w, "Repeat password: ")
	if err != nil {
		return "", err
	}
	defer clear(second)

	if string(first) != string(second) {
		return "", errPasswordMismatch
	}
	return string(first), nil
}
