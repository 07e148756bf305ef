// Package printing turns hostel reports and payment receipts into PDF files.
//
// Documents are produced in two steps. TemplateEngine renders one of the
// embedded HTML templates with the document data, and a PDFRenderer prints
// the HTML to PDF. ChromedpRenderer drives a headless Chrome either launched
// locally or reached over its remote debugging URL.
//
//	engine := NewTemplateEngine()
//	html, err := engine.RenderReport(table)
//	if err != nil {
//	    return err
//	}
//	result, err := renderer.Render(ctx, &RenderRequest{
//	    HTML:        html,
//	    Orientation: OrientationLandscape,
//	})
package printing
