package rl3

// SecurityHooks protects and unprotects the payload of EPS NAS messages that
// carry an integrity protected security header. The payload handed to the
// integrity hooks starts with the sequence number octet.
type SecurityHooks interface {
	CheckIntegrity(mac []byte, seq uint8, payload []byte) error
	AddIntegrity(seq uint8, payload []byte) ([]byte, error)
	Decipher(seq uint8, payload []byte) ([]byte, error)
	Cipher(seq uint8, payload []byte) ([]byte, error)
}

// NopSecurityHooks accepts every MAC, computes a zero one and leaves payloads
// in clear.
type NopSecurityHooks struct{}

func (NopSecurityHooks) CheckIntegrity([]byte, uint8, []byte) error { return nil }

func (NopSecurityHooks) AddIntegrity(uint8, []byte) ([]byte, error) {
	return make([]byte, 4), nil
}

func (NopSecurityHooks) Decipher(_ uint8, payload []byte) ([]byte, error) { return payload, nil }

func (NopSecurityHooks) Cipher(_ uint8, payload []byte) ([]byte, error) { return payload, nil }
