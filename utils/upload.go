package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Upload limits.
const (
	MaxCVSize        = 3 * 1024 * 1024
	MaxImageSize     = 10 * 1024 * 1024
	MinProjectImages = 4
	MaxProjectImages = 10

	// Request body caps for the upload forms, leaving room for the text fields.
	maxFormFields      = 1024 * 1024
	MaxApplicationBody = 2*MaxCVSize + maxFormFields
	MaxProjectFormBody = MaxImageSize*MaxProjectImages + maxFormFields
)

// Form error keys reported by the upload checks.
const (
	ErrKeyMissingCV  = "MissingCV"
	ErrKeyBigFile    = "BigFile"
	ErrKeyNotPDF     = "NotPDFType"
	ErrKeyNoImages   = "NoImages"
	ErrKeyFewImages  = "fewImages"
	ErrKeyManyImages = "manyImages"
	ErrKeyWrongType  = "wrongType"
	ErrKeyBigSize    = "bigSize"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
}

// ValidateCV checks the resume attached to a job application.
func ValidateCV(file *multipart.FileHeader) FormErrors {
	errs := FormErrors{}
	if file == nil {
		errs.Add(ErrKeyMissingCV, "Te rugăm să atașezi CV-ul în format PDF")
		return errs
	}
	if file.Size > MaxCVSize {
		errs.Add(ErrKeyBigFile, "CV-ul nu poate depăși 3 MB")
		return errs
	}
	if DeclaredContentType(file) != "application/pdf" {
		errs.Add(ErrKeyNotPDF, "CV-ul trebuie să fie un fișier PDF")
		return errs
	}
	if detected, err := DetectContentType(file); err != nil || detected != "application/pdf" {
		errs.Add(ErrKeyNotPDF, "CV-ul trebuie să fie un fișier PDF")
	}
	return errs
}

// ValidateProjectImages checks the gallery uploaded for a project.
func ValidateProjectImages(files []*multipart.FileHeader) FormErrors {
	errs := FormErrors{}
	switch {
	case len(files) == 0:
		errs.Add(ErrKeyNoImages, "Te rugăm să încarci imaginile proiectului")
		return errs
	case len(files) < MinProjectImages:
		errs.Add(ErrKeyFewImages, fmt.Sprintf("Încarcă cel puțin %d imagini", MinProjectImages))
		return errs
	case len(files) > MaxProjectImages:
		errs.Add(ErrKeyManyImages, fmt.Sprintf("Poți încărca cel mult %d imagini", MaxProjectImages))
		return errs
	}

	for _, file := range files {
		if file == nil {
			errs.Add(ErrKeyWrongType, "Fișier invalid")
			return errs
		}
		if file.Size > MaxImageSize {
			errs.Add(ErrKeyBigSize, fmt.Sprintf("Imaginea %s depășește 10 MB", file.Filename))
			return errs
		}
		if _, ok := allowedImageTypes[DeclaredContentType(file)]; !ok {
			errs.Add(ErrKeyWrongType, fmt.Sprintf("Imaginea %s nu este JPEG sau PNG", file.Filename))
			return errs
		}
		detected, err := DetectContentType(file)
		if _, ok := allowedImageTypes[detected]; err != nil || !ok {
			errs.Add(ErrKeyWrongType, fmt.Sprintf("Imaginea %s nu este JPEG sau PNG", file.Filename))
			return errs
		}
	}
	return errs
}

// DeclaredContentType returns the media type sent by the browser, without parameters.
func DeclaredContentType(file *multipart.FileHeader) string {
	ct := file.Header.Get("Content-Type")
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// DetectContentType sniffs the file content.
func DetectContentType(file *multipart.FileHeader) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	ct := mt.String()
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return ct, nil
}

// ReadUpload loads the whole file in memory.
func ReadUpload(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// ImageExtension maps a validated image to the extension stored with it.
func ImageExtension(file *multipart.FileHeader) string {
	if ext, ok := allowedImageTypes[DeclaredContentType(file)]; ok {
		return ext
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
}
