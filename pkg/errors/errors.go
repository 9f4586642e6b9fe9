/*
MIT License

Copyright (c) 2026 docreveal contributors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package errors provides the structured error kinds used across the decode
// and translate pipeline.
package errors

import (
	"fmt"
	"strings"
)

// Kind enumerates the error kinds from the error handling design.
type Kind string

const (
	KindFileNotFound         Kind = "FILE_NOT_FOUND"
	KindFileReadError        Kind = "FILE_READ_ERROR"
	KindFileWriteError       Kind = "FILE_WRITE_ERROR"
	KindUnsupportedOperation Kind = "UNSUPPORTED_OPERATION"

	KindUnknownFileType          Kind = "UNKNOWN_FILE_TYPE"
	KindUnsupportedFileType      Kind = "UNSUPPORTED_FILE_TYPE"
	KindUnknownDecoderEngine     Kind = "UNKNOWN_DECODER_ENGINE"
	KindUnsupportedDecoderEngine Kind = "UNSUPPORTED_DECODER_ENGINE"

	KindNoZipFile        Kind = "NO_ZIP_FILE"
	KindZipSaveError     Kind = "ZIP_SAVE_ERROR"
	KindNoCfbFile        Kind = "NO_CFB_FILE"
	KindCfbFileCorrupted Kind = "CFB_FILE_CORRUPTED"

	KindNoOpenDocumentFile    Kind = "NO_OPEN_DOCUMENT_FILE"
	KindNoOfficeOpenXmlFile   Kind = "NO_OFFICE_OPEN_XML_FILE"
	KindNoLegacyMicrosoftFile Kind = "NO_LEGACY_MICROSOFT_FILE"
	KindNoPdfFile             Kind = "NO_PDF_FILE"
	KindNoImageFile           Kind = "NO_IMAGE_FILE"
	KindNoArchiveFile         Kind = "NO_ARCHIVE_FILE"
	KindNoDocumentFile        Kind = "NO_DOCUMENT_FILE"
	KindNoXmlFile             Kind = "NO_XML_FILE"
	KindNoCsvFile             Kind = "NO_CSV_FILE"
	KindNoJsonFile            Kind = "NO_JSON_FILE"
	KindNoTextFile            Kind = "NO_TEXT_FILE"
	KindUnknownCharset        Kind = "UNKNOWN_CHARSET"

	KindUnsupportedCryptoAlgorithm      Kind = "UNSUPPORTED_CRYPTO_ALGORITHM"
	KindUnsupportedEndian               Kind = "UNSUPPORTED_ENDIAN"
	KindWrongPasswordError              Kind = "WRONG_PASSWORD"
	KindDecryptionFailed                Kind = "DECRYPTION_FAILED"
	KindNotEncryptedError               Kind = "NOT_ENCRYPTED"
	KindFileEncryptedError              Kind = "FILE_ENCRYPTED"
	KindDocumentCopyProtectedException  Kind = "DOCUMENT_COPY_PROTECTED"

	KindInvalidPath           Kind = "INVALID_PATH"
	KindInvalidPrefix         Kind = "INVALID_PREFIX"
	KindPrefixInUse           Kind = "PREFIX_IN_USE"
	KindNullPointerError      Kind = "NULL_POINTER"
	KindUnsupportedOption     Kind = "UNSUPPORTED_OPTION"
	KindResourceNotAccessible Kind = "RESOURCE_NOT_ACCESSIBLE"
)

// CoreError is a structured error carrying a Kind, the failing operation,
// an optional wrapped cause and free-form context.
type CoreError struct {
	Kind    Kind
	Op      string
	Err     error
	Message string
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *CoreError) Error() string {
	var parts []string

	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("operation=%s", e.Op))
	}
	if e.Kind != "" {
		parts = append(parts, fmt.Sprintf("kind=%s", e.Kind))
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Err != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Err))
	}
	if len(e.Context) > 0 {
		var ctx []string
		for k, v := range e.Context {
			ctx = append(ctx, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context={%s}", strings.Join(ctx, ", ")))
	}

	return strings.Join(parts, " | ")
}

// Unwrap returns the underlying error.
func (e *CoreError) Unwrap() error {
	return e.Err
}

// Is matches on Kind, the way the teacher's DocxError matches on Code.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates a CoreError with a formatted message.
func New(kind Kind, op, format string, args ...interface{}) error {
	return &CoreError{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a Kind and operation to an underlying error.
func Wrap(err error, kind Kind, op string) error {
	if err == nil {
		return nil
	}
	return &CoreError{Kind: kind, Op: op, Err: err}
}

// WrapContext attaches a Kind, operation and context map to an underlying error.
func WrapContext(err error, kind Kind, op string, ctx map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &CoreError{Kind: kind, Op: op, Err: err, Context: ctx}
}

// Is reports whether err (or anything in its chain) carries the given Kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if ce, ok := err.(*CoreError); ok {
			if ce.Kind == kind {
				return true
			}
			err = ce.Err
			continue
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// KindOf extracts the Kind from err, if any.
func KindOf(err error) (Kind, bool) {
	for err != nil {
		if ce, ok := err.(*CoreError); ok {
			return ce.Kind, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return "", false
		}
		err = u.Unwrap()
	}
	return "", false
}
