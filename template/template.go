// Package template turns loosely comma-delimited user input into the payload
// conventions QR readers understand: WiFi join strings, vCards, SMS, mailto
// and tel URIs.
//
// Format never blocks. When the input lacks the fields a kind needs it
// returns an *InsufficientFieldsError; Collect asks for the fields through a
// Prompter instead, and Apply chains the two.
package template

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind selects the payload grammar.
type Kind uint8

const (
	KindNone Kind = iota
	KindWiFi
	KindVCard
	KindSMS
	KindEmail
	KindPhone
)

var kindNames = map[Kind]string{
	KindNone:  "none",
	KindWiFi:  "wifi",
	KindVCard: "vcard",
	KindSMS:   "sms",
	KindEmail: "email",
	KindPhone: "phone",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Kinds lists the selectable (non-passthrough) kinds in CLI order.
func Kinds() []Kind {
	return []Kind{KindWiFi, KindVCard, KindSMS, KindEmail, KindPhone}
}

// ParseKind maps a name to a Kind. The empty string and "none" mean no
// template.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindNone, nil
	}
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}

	return KindNone, errors.Errorf("unknown template %q", s)
}

// InsufficientFieldsError is returned by Format when the raw input does not
// carry the fields the kind requires.
type InsufficientFieldsError struct {
	Kind Kind
	// Want is the number of fields required, Got the number found.
	Want, Got int
	// Exact is set when Want is an exact count rather than a minimum.
	Exact bool
}

func (e *InsufficientFieldsError) Error() string {
	qualifier := "at least"
	if e.Exact {
		qualifier = "exactly"
	}
	return fmt.Sprintf("%s template needs %s %d comma-separated fields, got %d",
		e.Kind, qualifier, e.Want, e.Got)
}

// Format renders raw according to kind. Unknown kinds and KindNone return raw
// unchanged. Fields are inserted verbatim, and the last field of a vcard
// (organization), sms (message) or email (body) keeps any further commas.
func Format(kind Kind, raw string) (string, error) {
	switch kind {
	case KindWiFi:
		w, err := parseWiFi(raw)
		if err != nil {
			return "", err
		}
		return w.String(), nil
	case KindVCard:
		v, err := parseVCard(raw)
		if err != nil {
			return "", err
		}
		return v.String(), nil
	case KindSMS:
		return parseSMS(raw).String(), nil
	case KindEmail:
		return parseEmail(raw).String(), nil
	case KindPhone:
		return "tel:" + raw, nil
	default:
		return raw, nil
	}
}

// Apply formats raw and, when fields are missing and p is not nil, collects
// them interactively. A nil Prompter turns the missing fields into an error.
func Apply(kind Kind, raw string, p Prompter) (string, error) {
	out, err := Format(kind, raw)
	if err == nil {
		return out, nil
	}

	var insufficient *InsufficientFieldsError
	if p == nil || !errors.As(err, &insufficient) {
		return "", err
	}

	return Collect(kind, p)
}

// splitFields cuts raw at commas into at most n fields. Fields are kept
// verbatim, surrounding spaces included.
func splitFields(raw string, n int) []string {
	return strings.SplitN(raw, ",", n)
}

// WiFi is a network join payload.
type WiFi struct {
	SSID       string
	Password   string
	Encryption string
}

func (w WiFi) String() string {
	return fmt.Sprintf("WIFI:T:%s;S:%s;P:%s;;", w.Encryption, w.SSID, w.Password)
}

func parseWiFi(raw string) (WiFi, error) {
	parts := splitFields(raw, -1)
	if len(parts) != 3 {
		return WiFi{}, &InsufficientFieldsError{Kind: KindWiFi, Want: 3, Got: len(parts), Exact: true}
	}

	return WiFi{SSID: parts[0], Password: parts[1], Encryption: parts[2]}, nil
}

var wifiEncryptions = map[string]bool{"WPA": true, "WEP": true, "NOPASS": true}

// normalizeEncryption applies the interactive rule: uppercase, and WPA for
// anything that is not a known scheme.
func normalizeEncryption(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !wifiEncryptions[s] {
		return "WPA"
	}
	return s
}

// VCard is a minimal vCard 3.0 contact.
type VCard struct {
	Name         string
	Phone        string
	Email        string
	Organization string
}

func (v VCard) String() string {
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + v.Name,
	}
	if v.Phone != "" {
		lines = append(lines, "TEL:"+v.Phone)
	}
	if v.Email != "" {
		lines = append(lines, "EMAIL:"+v.Email)
	}
	if v.Organization != "" {
		lines = append(lines, "ORG:"+v.Organization)
	}
	lines = append(lines, "END:VCARD")

	return strings.Join(lines, "\n")
}

// parseVCard reads name, phone, [email], [org]. Everything after the third
// comma is the organization, so "A,B,C,D,E" gives ORG:D,E.
func parseVCard(raw string) (VCard, error) {
	parts := splitFields(raw, 4)
	if len(parts) < 2 {
		return VCard{}, &InsufficientFieldsError{Kind: KindVCard, Want: 2, Got: len(parts)}
	}

	v := VCard{Name: parts[0], Phone: parts[1]}
	if len(parts) > 2 {
		v.Email = parts[2]
	}
	if len(parts) > 3 {
		v.Organization = parts[3]
	}

	return v, nil
}

// SMS is an SMSTO payload.
type SMS struct {
	Phone   string
	Message string
}

func (s SMS) String() string {
	return fmt.Sprintf("SMSTO:%s:%s", s.Phone, s.Message)
}

func parseSMS(raw string) SMS {
	phone, message, _ := strings.Cut(raw, ",")
	return SMS{Phone: phone, Message: message}
}

// Email is a mailto URI. Subject and body are inserted verbatim.
type Email struct {
	Address string
	Subject string
	Body    string
}

func (e Email) String() string {
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s", e.Address, e.Subject, e.Body)
}

func parseEmail(raw string) Email {
	parts := splitFields(raw, 3)
	e := Email{Address: parts[0]}
	if len(parts) > 1 {
		e.Subject = parts[1]
	}
	if len(parts) > 2 {
		e.Body = parts[2]
	}
	return e
}
