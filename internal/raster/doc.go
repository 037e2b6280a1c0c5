// Package raster converts documents into ordered sequences of watermarked
// page images: the representation any authenticated viewer may see, as
// opposed to the encrypted original.
//
// Rendering uses MuPDF (via go-fitz) at a fixed DPI; watermarks are drawn
// with gg using the embedded Go fonts, so output is reproducible across
// machines. The identity stamped onto a page is the one supplied at
// conversion time. For uploads that is the uploader, and every later
// viewer of those pages sees that same label.
package raster
