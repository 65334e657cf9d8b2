// Package qrgen generates standard and micro QR codes for the terminal and
// for image files.
//
// A Request is validated and handed to a Generator, which encodes the
// payload with go-qrcode (standard) or the microqr package (micro), prints
// it as text art and writes it through writer/standard. Payloads for WiFi
// networks, contact cards and similar intents are built by the template
// package beforehand.
package qrgen
