package lexer

// Layout implements the modified off-side rule from spec §4.1: after the
// raw token stream is produced, a second pass walks it tracking the
// reference column of the enclosing block (opened by `where`, `do`, or
// `of`) and synthesizes EndOfItem / EndOfBlock / EndOfModule tokens.
//
// This mirrors siko_parser::lexer::{process_program, process_item,
// process_block} in the original implementation: a block is a sequence of
// items at the same column; an item ends when the next token's column is
// <= the block's reference column (<=: EndOfItem; <: EndOfItem followed by
// EndOfBlock, i.e. the enclosing block also ends); parenthesis nesting
// suspends column comparisons.

type layoutIterator struct {
	tokens []Token
	pos    int
	result []Token
}

func (it *layoutIterator) done() bool { return it.pos >= len(it.tokens) }
func (it *layoutIterator) peek() Token { return it.tokens[it.pos] }
func (it *layoutIterator) advance() Token {
	t := it.tokens[it.pos]
	it.pos++
	return t
}

// addEnd appends a synthetic token reusing the position of the last real
// token emitted, matching siko's add_end (which borrows the previous
// token's location for the synthetic one).
func (it *layoutIterator) addEnd(tt TokenType) {
	var last Token
	if len(it.result) > 0 {
		last = it.result[len(it.result)-1]
	}
	it.result = append(it.result, NewToken(tt, "", last.Line, last.Column, last.File))
}

// ApplyLayout consumes a raw (non-layout-annotated) token stream ending in
// an EOF token and returns the layout-annotated stream.
func ApplyLayout(tokens []Token) ([]Token, error) {
	// Drop the trailing EOF; layout reasons purely about real tokens, and
	// EOF is re-appended once layout settles (siko pops synthetic EOF
	// equivalent and relies on EndOfModule as the true terminator).
	body := tokens
	if len(body) > 0 && body[len(body)-1].Type == EOF {
		body = body[:len(body)-1]
	}
	it := &layoutIterator{tokens: body}
	if err := processProgram(it); err != nil {
		return nil, err
	}
	// processProgram always emits one redundant trailing EndOfModule
	// (mirroring siko_parser::lexer::process_program, which does the same
	// and then pops it in Lexer::process): drop it here.
	if len(it.result) > 0 {
		it.result = it.result[:len(it.result)-1]
	}
	result := mergeFloats(it.result)
	if len(tokens) > 0 {
		result = append(result, tokens[len(tokens)-1]) // re-append EOF
	}
	return result, nil
}

func processProgram(it *layoutIterator) error {
	for !it.done() {
		moduleTok := it.peek()
		if moduleTok.Type != MODULE {
			return &Error{Kind: "Custom", Message: "expected keyword module", Line: moduleTok.Line, Column: moduleTok.Column, File: moduleTok.File}
		}
		it.result = append(it.result, it.advance())
		if !it.done() {
			if err := processBlock(it, moduleTok, true); err != nil {
				return err
			}
			it.addEnd(ENDOFMODULE)
		}
	}
	it.addEnd(ENDOFMODULE)
	return nil
}

func processBlock(it *layoutIterator, blockTok Token, isModule bool) error {
	if it.done() {
		return &Error{Kind: "Custom", Message: "empty block", Line: blockTok.Line, Column: blockTok.Column, File: blockTok.File}
	}
	first := it.peek()
	for !it.done() {
		endOfBlock, err := processItem(it, first, isModule)
		if err != nil {
			return err
		}
		if endOfBlock {
			break
		}
	}
	if !isModule {
		it.addEnd(ENDOFBLOCK)
	}
	return nil
}

// processItem consumes tokens belonging to one item of the enclosing
// block. It returns true when the enclosing block itself has ended (the
// next token's column is strictly less than the reference column).
func processItem(it *layoutIterator, start Token, isModule bool) (bool, error) {
	first := true
	parenLevel := 0
	for !it.done() {
		info := it.peek()
		if first {
			first = false
		} else if parenLevel == 0 && info.Column <= start.Column {
			if !isModule {
				it.addEnd(ENDOFITEM)
			}
			return info.Column < start.Column, nil
		}
		if info.Type == MODULE {
			return true, nil
		}
		if info.Type == LPAREN {
			parenLevel++
		}
		if info.Type == RPAREN {
			parenLevel--
			if parenLevel < 0 {
				break
			}
		}
		it.result = append(it.result, info)
		if info.Type == WHERE || info.Type == DO || info.Type == OF {
			it.advance()
			if err := processBlock(it, info, false); err != nil {
				return false, err
			}
		} else {
			it.advance()
		}
	}
	if !isModule {
		it.addEnd(ENDOFITEM)
	}
	return true, nil
}

// mergeFloats folds an adjacent INT DOT INT run with no intervening
// whitespace into a single FLOAT token (spec §4.1: "a float is synthesized
// post-lex when the sequence Int '.' Int appears with no intervening
// whitespace").
func mergeFloats(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	i := 0
	for i < len(tokens) {
		if i+2 < len(tokens) &&
			tokens[i].Type == INT && tokens[i+1].Type == DOT && tokens[i+2].Type == INT &&
			tokens[i].Line == tokens[i+1].Line && tokens[i+1].Line == tokens[i+2].Line &&
			tokens[i].Column+len(tokens[i].Literal) == tokens[i+1].Column &&
			tokens[i+1].Column+1 == tokens[i+2].Column {
			merged := tokens[i]
			merged.Type = FLOAT
			merged.Literal = tokens[i].Literal + "." + tokens[i+2].Literal
			out = append(out, merged)
			i += 3
			continue
		}
		out = append(out, tokens[i])
		i++
	}
	return out
}
