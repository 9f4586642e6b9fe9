package cfbcodec

// WordCopyProtected reports whether a legacy .doc file's FIB base declares
// read-only-recommended or write-reservation protection — Word's "no
// modification without password" feature, which restricts editing without
// encrypting the stream content and is therefore distinct from the FIB's
// separate fEncrypted bit. MS-DOC's FibBase (2.5.1) packs both flags into
// the 16-bit field at stream offset 0x0A: bit 10 is fReadOnlyRecommended,
// bit 11 is fWriteReservation.
//
// The original implementation this module is distilled from never actually
// reads this flag (oldms/src/LegacyMicrosoftFile.cpp's decrypt leaves it a
// TODO stub); this is a from-scratch reading of the publicly documented FIB
// layout the spec's own error kind (DOCUMENT_COPY_PROTECTED) presupposes.
func (r *Reader) WordCopyProtected() bool {
	const fibFlagsOffset = 0x0A
	const fReadOnlyRecommended = 0x0400
	const fWriteReservation = 0x0800

	data, ok := r.Stream("WordDocument")
	if !ok || len(data) < fibFlagsOffset+2 {
		return false
	}
	flags := uint16(data[fibFlagsOffset]) | uint16(data[fibFlagsOffset+1])<<8
	return flags&(fReadOnlyRecommended|fWriteReservation) != 0
}
