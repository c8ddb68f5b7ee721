package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"toyc/internal/driver"
	"toyc/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.toy",
	Short: "Tokenize a toy source file",
	Long:  `Tokenize breaks a toy source file into its token stream`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	res, err := driver.TokenizeFile(args[0], maxDiagnostics(cmd))
	if err != nil {
		return err
	}
	printDiagnostics(cmd, res.Bag, res.FileSet)
	if res.Tokens == nil {
		return errors.New("tokenization failed")
	}

	switch format {
	case "pretty":
		for _, tok := range res.Tokens {
			start, _ := res.FileSet.Resolve(tok.Span)
			fmt.Fprintf(cmd.OutOrStdout(), "%4d:%-3d %s\n", start.Line, start.Col, tok)
		}
		return nil
	case "json":
		return writeTokensJSON(cmd, res.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

type tokenPayload struct {
	Kind  string `json:"kind"`
	Text  string `json:"text,omitempty"`
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

func writeTokensJSON(cmd *cobra.Command, toks []token.Token) error {
	payload := make([]tokenPayload, 0, len(toks))
	for _, tok := range toks {
		payload = append(payload, tokenPayload{
			Kind:  tok.Kind.String(),
			Text:  tok.Text,
			Start: tok.Span.Start,
			End:   tok.Span.End,
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
