package dsl

import "testing"

func TestLexer(t *testing.T) {
	type test struct {
		input  string
		expect []token
	}
	tests := []test{
		{
			input: "steps 1 '* 2",
			expect: []token{
				{typ: typeIdentifier, text: "steps"},
				{typ: typeInt, text: "1"},
				{typ: typeQuote, text: "'"},
				{typ: typeAsterisk, text: "*"},
				{typ: typeInt, text: "2"},
				{typ: typeEOF},
			},
		},
		{
			input: "toggle 1 2",
			expect: []token{
				{typ: typeIdentifier, text: "toggle"},
				{typ: typeInt, text: "1"},
				{typ: typeInt, text: "2"},
				{typ: typeEOF},
			},
		},
		{
			input: "'1:2 /    / 3,4",
			expect: []token{
				{typ: typeQuote, text: "'"},
				{typ: typeInt, text: "1"},
				{typ: typeColon, text: ":"},
				{typ: typeInt, text: "2"},
				{typ: typeSlash, text: "/"},
				{typ: typeSlash, text: "/"},
				{typ: typeInt, text: "3"},
				{typ: typeComma, text: ","},
				{typ: typeInt, text: "4"},
				{typ: typeEOF},
			},
		},
		{
			input: "1.0",
			expect: []token{
				{typ: typeFloat, text: "1.0"},
				{typ: typeEOF},
			},
		},
		{
			input: "-1.",
			expect: []token{
				{typ: typeFloat, text: "-1."},
				{typ: typeEOF},
			},
		},
		{
			input: "-.1",
			expect: []token{
				{typ: typeFloat, text: "-.1"},
				{typ: typeEOF},
			},
		},
		{
			input: `open "projects/my beat.json"`,
			expect: []token{
				{typ: typeIdentifier, text: "open"},
				{typ: typeString, text: `"projects/my beat.json"`},
				{typ: typeEOF},
			},
		},
		{
			input: "load 1 808-kick.wav",
			expect: []token{
				{typ: typeIdentifier, text: "load"},
				{typ: typeInt, text: "1"},
				{typ: typeIdentifier, text: "808-kick.wav"},
				{typ: typeEOF},
			},
		},
		{
			input: "bpm 140; play",
			expect: []token{
				{typ: typeIdentifier, text: "bpm"},
				{typ: typeInt, text: "140"},
				{typ: typeSemicolon, text: ";"},
				{typ: typeIdentifier, text: "play"},
				{typ: typeEOF},
			},
		},
	}
	for _, test := range tests {
		t.Log(test.input)
		tokens, err := lex(test.input)
		if err != nil {
			t.Errorf("unexpected lex error: %v", err)
			continue
		}
		if len(tokens) != len(test.expect) {
			t.Fatalf("token mismatch: \nwant: %+v, \ngot:  %+v", test.expect, tokens)
		}
		for i, got := range tokens {
			want := test.expect[i]
			if want.typ != got.typ {
				t.Errorf("wrong type: want %v, got %v", want, got)
			}
			if want.text != got.text {
				t.Errorf("wrong text: want %v, got %v", want, got)
			}
		}
	}
}

func TestLexerErrors(t *testing.T) {
	for _, input := range []string{
		"a -",
		"a .-",
		`a "unterminated`,
	} {
		_, err := lex(input)
		if err == nil {
			t.Errorf("expected error for input: %q", input)
		}
	}
}
