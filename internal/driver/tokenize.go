package driver

import (
	"toyc/internal/diag"
	"toyc/internal/lexer"
	"toyc/internal/source"
	"toyc/internal/token"
)

// TokenizeResult carries the token stream of one file plus any lexical
// diagnostics.
type TokenizeResult struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Tokens  []token.Token
	Bag     *diag.Bag
}

// TokenizeFile runs only the lexer over a file. Load failures are reported
// through the bag, matching CompileFile.
func TokenizeFile(path string, maxDiagnostics int) (TokenizeResult, error) {
	if maxDiagnostics <= 0 {
		maxDiagnostics = defaultMaxDiagnostics
	}
	fs := source.NewFileSet()
	res := TokenizeResult{FileSet: fs, Bag: diag.NewBag(maxDiagnostics)}

	id, err := fs.Load(path)
	if err != nil {
		res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{},
			"failed to load file: "+err.Error()))
		return res, nil
	}
	res.FileID = id
	res.Tokens = lexer.New(fs.Get(id), diag.BagReporter{Bag: res.Bag}).Tokenize()
	return res, nil
}
