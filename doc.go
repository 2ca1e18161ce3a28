// Package epubconv converts ePub archives into plain text or a single
// printable HTML document.
//
// The reading order comes from the package document: container.xml names
// the OPF file, whose spine lists manifest items in narrative order. Only
// HTML content documents are kept. When the archive has no usable package
// document, or its spine yields nothing, every .xhtml/.html/.htm entry is
// used instead, sorted by name.
//
// # Converting bytes
//
// [ArchiveToText] and [ArchiveToHTML] are pure functions over an in-memory
// archive and are safe to call concurrently:
//
//	txt, err := epubconv.ArchiveToText(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Working with a Book
//
// [Open] and [NewReader] return a [Book] that exposes the resolved reading
// order, metadata and the warnings collected along the way:
//
//	book, err := epubconv.Open("book.epub")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer book.Close()
//
//	for _, doc := range book.Documents() {
//	    text, _ := doc.TextContent()
//	    fmt.Println(doc.Path, len(text))
//	}
//	fmt.Print(book.Text())
//
// # Error Handling
//
// Only two conditions stop a conversion:
//   - [ErrNoInput] – no bytes or reader were supplied
//   - [ErrInvalidArchive] – the input is not a ZIP archive
//
// A missing or malformed container.xml or package document, an empty
// spine, missing archive members, non-UTF-8 documents, encrypted content
// and broken markup all degrade to a smaller result. [Book.Warnings]
// describes what was skipped.
package epubconv
