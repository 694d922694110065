// Package extractors turns uploaded files into plain text.
//
// Each sub-package handles one family of formats. Registry combines them
// behind the driven.TextExtractor port and dispatches by file extension,
// then by MIME type.
package extractors
