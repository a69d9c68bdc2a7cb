// Package printing turns web pages into PDF files with headless Chrome and
// keeps them in storage until they expire.
//
//	renderer, _ := printing.NewChromedpRenderer(&printing.ChromedpConfig{RenderWait: 10 * time.Second})
//	pdfs := printing.NewPDFService(renderer, store, 7, logger)
//	generated, err := pdfs.Generate(ctx, "https://kkambbaki.example/report?BOT_TOKEN=...")
package printing
