// Package artifact loads compiled contract bytecode from disk in the form the
// Hedera file service expects: hex text with no prefix or whitespace. Files
// ending in .br are brotli-decompressed first.
package artifact
