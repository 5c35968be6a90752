// Package blockstream implements a streaming front end for 16-byte block
// ciphers in CBC mode.
//
// A Session accepts plaintext or ciphertext in arbitrary-sized chunks,
// stages partial blocks in a fixed workspace between calls, and hands whole
// blocks to an Engine one aligned run at a time. PKCS#7 padding is applied
// on encrypt and validated with a constant-work comparison on decrypt.
//
// The block transform itself (key schedule, round function, chaining value)
// lives behind the Engine interface; NewAESEngine provides the AES
// implementation, and a test double can stand in for it to exercise the
// buffering logic in isolation.
package blockstream
