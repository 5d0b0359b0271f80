/*
Package lexmach provides an adapter to use the lexmachine scanner generator with
the parsers and grammar readers of slrgen.

For more information on lexmachine, see e.g.
https://hackthology.com/how-to-tokenize-complex-strings-with-lexmachine.html

Lexmachine has to be initialized with regular expressions and literals.
Token types are chosen by the client; type scanner.EOF is reserved for the
end of input.

	tokenIds := map[string]slrgen.TokType{"->": 10, "|": 11}

	init := func(lexer *lexmachine.Lexer) {
		lexer.Add([]byte(`( |\t)+`), lexmach.Skip)          // ignore the match
		lexer.Add([]byte(`[!-~]`), lexmach.MakeToken(12))  // wrap the match into a token
	}

	LM, err := lexmach.NewLMAdapter(init, []string{"->", "|"}, tokenIds)

A scanner is instantiated for each concrete input sequence.
The scanner implements the scanner.Tokenizer interface.

	scan, err := LM.Scanner("E -> E+T | T")
	for token := scan.NextToken(); token.TokType() != scanner.EOF; token = scan.NextToken() {
		…
	}

________________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach
