// Package news reads AG News style CSV files (columns "Class Index", "Title",
// "Description") into datasets.Record values.
package news
