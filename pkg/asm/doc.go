// Package asm translates line-oriented assembly text into bytecode for
// the minivm machine.
//
// Translation is split across a tokenizer and a two-pass assembler. The
// assembler consumes a finite, ordered token stream in which every
// token is classified as a NUMBER, STRING, INSTRUCTION, LABEL or
// LABEL_REF; any tokenizer producing that contract will do, the Lexer
// in this package is the stock one.
//
// Pass 1 walks the tokens and emits code points, recording label
// definitions in a symbol table as it goes. A reference to a label that
// has not been defined yet is emitted as an unresolved placeholder.
// Pass 2 walks the code points and replaces every placeholder with the
// position recorded for its label, so forward references cost nothing
// at the point of use. A placeholder whose name never got a definition
// aborts the compilation with an UnknownSymbolError and no bytecode.
package asm
