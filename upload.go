package reqsift

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	MB          = 1 << 20
	MaxFileSize = 50 * MB
)

// StoreDocument sniffs and stores an uploaded PDF into file storage and
// returns its location, usable as a run source. The stored name is derived
// from the content hash so re-uploading the same document is idempotent.
func (rs *reqSift) StoreDocument(contents io.ReadSeeker, fileName string) (string, error) {
	if rs.storage == nil {
		return "", fmt.Errorf("no file storage configured")
	}

	contentType, ok, err := checkContentType(contents)
	if err != nil {
		return "", fmt.Errorf("error checking content type: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("invalid file type %s, only PDF documents are supported", contentType)
	}

	if _, err := contents.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("error seeking file to start: %w", err)
	}

	hashWriter := sha256.New()
	if _, err := io.Copy(hashWriter, contents); err != nil {
		return "", fmt.Errorf("error hashing file: %w", err)
	}
	if _, err := contents.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("error seeking file to start: %w", err)
	}

	storedName := hex.EncodeToString(hashWriter.Sum(nil)) + ".pdf"

	exists, err := rs.storage.Exists(storedName)
	if err != nil {
		return "", fmt.Errorf("error checking file existence: %w", err)
	}
	if !exists {
		if err := rs.storage.Write(storedName, contents); err != nil {
			return "", fmt.Errorf("error storing file: %w", err)
		}
	}

	rs.logger.Sugar().With(
		"file_name", fileName,
		"stored_name", storedName,
	).Info("stored document")

	return rs.storage.Path(storedName), nil
}

var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
}

func checkContentType(reader io.Reader) (string, bool, error) {
	contentType, err := detectContentType(reader)
	if err != nil {
		return "", false, err
	}
	_, ok := allowedContentTypes[contentType]
	return contentType, ok, nil
}

func detectContentType(reader io.Reader) (string, error) {
	// At most the first 512 bytes of data are used:
	// https://golang.org/src/net/http/sniff.go?s=646:688#L11
	buff := make([]byte, 512)

	bytesRead, err := reader.Read(buff)
	if err != nil && err != io.EOF {
		return "", err
	}

	// Slice to remove fill-up zero values which cause a wrong content type
	// detection in the next step.
	buff = buff[:bytesRead]

	contentType := http.DetectContentType(buff)

	// http.DetectContentType may append charset parameters.
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}

	return contentType, nil
}
