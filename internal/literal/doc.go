// Package literal parses array literals embedded in page scripts as data.
//
// The parser understands the subset shared by JavaScript array literals and
// Python literal syntax: quoted strings, numbers, booleans, null/None, nested
// arrays and parenthesised tuples. Nothing is ever evaluated, so a hostile
// page can at worst produce a SyntaxError.
package literal
