package pkcs12

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"time"

	"software.sslmate.com/src/go-pkcs12"
)

// ErrMissingCertificate ocorre quando o arquivo não contém certificado
var ErrMissingCertificate = errors.New("arquivo PFX sem certificado")

// Info resume os dados de um certificado A1
type Info struct {
	Subject   string
	Issuer    string
	NotBefore time.Time
	NotAfter  time.Time
}

// Inspect decodifica o PFX com a senha informada e retorna subject e validade
func Inspect(pfxData []byte, password string) (*Info, error) {
	_, certificate, _, err := pkcs12.DecodeChain(pfxData, password)
	if err != nil {
		return nil, err
	}
	if certificate == nil {
		return nil, ErrMissingCertificate
	}

	return &Info{
		Subject:   certificate.Subject.CommonName,
		Issuer:    certificate.Issuer.CommonName,
		NotBefore: certificate.NotBefore,
		NotAfter:  certificate.NotAfter,
	}, nil
}

// ToPEM converte um certificado PKCS12 para blocos PEM
func ToPEM(pfxData []byte, password string) ([]*pem.Block, error) {
	privateKey, certificate, caCerts, err := pkcs12.DecodeChain(pfxData, password)
	if err != nil {
		return nil, err
	}

	var blocks []*pem.Block

	if certificate != nil {
		blocks = append(blocks, &pem.Block{
			Type:  "CERTIFICATE",
			Bytes: certificate.Raw,
		})
	}

	// Certificados da cadeia (CA)
	for _, cert := range caCerts {
		blocks = append(blocks, &pem.Block{
			Type:  "CERTIFICATE",
			Bytes: cert.Raw,
		})
	}

	if privateKey != nil {
		pkData, err := x509.MarshalPKCS8PrivateKey(privateKey)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, &pem.Block{
			Type:  "PRIVATE KEY",
			Bytes: pkData,
		})
	}

	return blocks, nil
}
