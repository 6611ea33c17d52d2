// Package token defines the lexical vocabulary of bondrewd.
// Invariants:
//   - Token.Text is a slice of the buffered input (no copies).
//   - PunctID and KeywordID values are stable; spellings round-trip through
//     LookupPunct and LookupKeyword.
//   - Soft keywords such as `self` are Name tokens and are matched by text.
//   - Whitespace and comments never produce tokens.
package token
