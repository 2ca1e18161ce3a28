package epubconv

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// encryptionFilePath is the standard path for the encryption descriptor.
const encryptionFilePath = "META-INF/encryption.xml"

// sinfFilePath is the path that indicates Apple FairPlay DRM.
const sinfFilePath = "META-INF/sinf.xml"

// Font obfuscation algorithm URIs. These do not constitute DRM.
var fontObfuscationAlgorithms = map[string]bool{
	"http://www.idpf.org/2008/embedding": true, // IDPF font obfuscation
	"http://ns.adobe.com/pdf/enc#RC":     true, // Adobe font obfuscation
}

// Known DRM namespace prefixes found in KeyInfo child elements or algorithm URIs.
var drmSignatures = []struct{ prefix, name string }{
	{"http://ns.adobe.com/adept", "Adobe ADEPT"},
	{"http://readium.org/2014/01/lcp", "Readium LCP"},
}

type xmlEncryption struct {
	XMLName       xml.Name           `xml:"encryption"`
	EncryptedData []xmlEncryptedData `xml:"EncryptedData"`
}

type xmlEncryptedData struct {
	EncryptionMethod xmlEncryptionMethod `xml:"EncryptionMethod"`
	KeyInfo          xmlKeyInfo          `xml:"KeyInfo"`
	CipherData       xmlCipherData       `xml:"CipherData"`
}

type xmlEncryptionMethod struct {
	Algorithm string `xml:"Algorithm,attr"`
}

type xmlKeyInfo struct {
	InnerXML string `xml:",innerxml"`
}

type xmlCipherData struct {
	Reference xmlCipherReference `xml:"CipherReference"`
}

type xmlCipherReference struct {
	URI string `xml:"URI,attr"`
}

// checkEncryption inspects META-INF/encryption.xml and META-INF/sinf.xml.
// Encrypted content is not decrypted; each finding becomes a warning so
// the conversion can still produce whatever text remains readable.
func checkEncryption(a *archive) []string {
	var warnings []string

	if a.find(sinfFilePath) != nil {
		warnings = append(warnings, "Apple FairPlay DRM detected; protected documents will convert to noise or nothing")
	}

	f := a.find(encryptionFilePath)
	if f == nil {
		return warnings
	}

	data, err := readZipFile(f)
	if err != nil {
		return append(warnings, fmt.Sprintf("cannot read encryption.xml: %v", err))
	}

	var enc xmlEncryption
	if err := xml.Unmarshal(stripBOM(data), &enc); err != nil {
		return append(warnings, fmt.Sprintf("cannot parse encryption.xml: %v; content may be encrypted", err))
	}

	fonts := 0
	var encrypted []string
	scheme := ""
	for _, ed := range enc.EncryptedData {
		algo := ed.EncryptionMethod.Algorithm
		if fontObfuscationAlgorithms[algo] {
			fonts++
			continue
		}
		if s := drmScheme(algo); s != "" && scheme == "" {
			scheme = s
		}
		if s := drmScheme(ed.KeyInfo.InnerXML); s != "" && scheme == "" {
			scheme = s
		}
		encrypted = append(encrypted, ed.CipherData.Reference.URI)
	}

	if fonts > 0 {
		warnings = append(warnings, "font obfuscation detected; fonts are ignored during conversion")
	}
	if len(encrypted) > 0 {
		if scheme == "" {
			scheme = "unknown scheme"
		}
		warnings = append(warnings, fmt.Sprintf("%d encrypted resource(s) (%s): %s",
			len(encrypted), scheme, strings.Join(encrypted, ", ")))
	}
	return warnings
}

// drmScheme returns the name of the first known DRM signature found in s.
func drmScheme(s string) string {
	for _, sig := range drmSignatures {
		if strings.Contains(s, sig.prefix) {
			return sig.name
		}
	}
	return ""
}
