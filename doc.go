// Package jpeg implements the structural front-end of a JPEG decoder: the
// marker-stream lexer, the segment parsers, the Huffman table builder, and
// the driver that sequences a JFIF/EXIF stream from SOI to EOI.
//
// The package stops where entropy decoding begins. It delivers validated
// scan plans together with bit-level readers over each entropy-coded
// segment; inverse DCT, color conversion, and pixel assembly are left to
// the consumer.
//
// Decoding is event-driven:
//
//	dec := jpeg.NewDecoder(reader)
//	defer dec.Close()
//	for {
//	    ev, err := dec.Next()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    switch ev := ev.(type) {
//	    case jpeg.FrameReady:
//	        // ev.Frame describes the image planes.
//	    case jpeg.ScanReady:
//	        // ev.Plan binds planes to table slots; ev.Segments holds
//	        // one bitstream per entropy-coded segment.
//	    case jpeg.End:
//	        return
//	    }
//	}
//
// The entropy decoder resolves a scan plan's table selectors through
// DCTableAt, ACTableAt, and QuantTableAt, which always reflect the most
// recent DHT/DQT definitions at that point of the stream.
//
// Baseline, extended sequential, and progressive Huffman processes are
// supported, including restart intervals and DNL height redefinition.
// Arithmetic coding and the hierarchical and lossless processes are not.
package jpeg
