// Package main provides the docmerge CLI: bulk mail-merge document
// generation from spreadsheet data and DOCX templates.
package main

func main() {
	Execute()
}
