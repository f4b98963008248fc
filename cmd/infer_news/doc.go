// Package main classifies news texts with a saved hybrid classifier. Texts are given
// as arguments, or read one per line from standard input when there are none.
package main
