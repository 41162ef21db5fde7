package epub

import (
	"bytes"
	"errors"
	"fmt"
)

const (
	encryptionPath = "META-INF/encryption.xml"
	sinfPath       = "META-INF/sinf.xml" // Apple FairPlay
)

// Font obfuscation is not DRM; text entries stay readable.
var fontObfuscationAlgorithms = map[string]bool{
	"http://www.idpf.org/2008/embedding": true,
	"http://ns.adobe.com/pdf/enc#RC":     true,
}

type encryptionXML struct {
	EncryptedData []struct {
		EncryptionMethod struct {
			Algorithm string `xml:"Algorithm,attr"`
		} `xml:"EncryptionMethod"`
	} `xml:"EncryptedData"`
}

// CheckDRM returns ErrDRMProtected when the archive carries real content
// encryption. Font obfuscation alone is allowed.
func CheckDRM(r EntryOpener) error {
	if rc, err := r.Open(sinfPath); err == nil {
		rc.Close()
		return ErrDRMProtected
	}

	data, err := ReadEntry(r, encryptionPath)
	if errors.Is(err, ErrEntryNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var enc encryptionXML
	if err := newXMLDecoder(bytes.NewReader(data)).Decode(&enc); err != nil {
		return fmt.Errorf("failed to parse %s: %w: %w", encryptionPath, ErrMalformedXML, err)
	}
	for _, ed := range enc.EncryptedData {
		if !fontObfuscationAlgorithms[ed.EncryptionMethod.Algorithm] {
			return ErrDRMProtected
		}
	}
	return nil
}
