package template

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Prompter asks the user for a single value.
type Prompter interface {
	Prompt(label string) (string, error)
}

// LinePrompter writes a label and reads one line per prompt.
type LinePrompter struct {
	r *bufio.Reader
	w io.Writer
}

// NewLinePrompter reads answers from r and writes labels to w.
func NewLinePrompter(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{r: bufio.NewReader(r), w: w}
}

// Prompt returns the next line without its line terminator. A last line
// without a trailing newline is accepted; EOF before any input is an error.
func (p *LinePrompter) Prompt(label string) (string, error) {
	if _, err := fmt.Fprint(p.w, label); err != nil {
		return "", errors.Wrap(err, "write prompt")
	}

	line, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", errors.Wrapf(err, "read %q", strings.TrimSpace(strings.TrimSuffix(label, ": ")))
	}

	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), nil
}

type field struct {
	label string
	dst   *string
}

func ask(p Prompter, fields ...field) error {
	for _, f := range fields {
		v, err := p.Prompt(f.label)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

// Collect builds the payload for kind from interactive answers. Kinds that
// never run short of fields are formatted from a single prompt.
func Collect(kind Kind, p Prompter) (string, error) {
	switch kind {
	case KindWiFi:
		var w WiFi
		err := ask(p,
			field{"WiFi network name (SSID): ", &w.SSID},
			field{"WiFi password: ", &w.Password},
			field{"Encryption type (WPA/WEP/nopass) [WPA]: ", &w.Encryption},
		)
		if err != nil {
			return "", err
		}
		w.Encryption = normalizeEncryption(w.Encryption)
		return w.String(), nil

	case KindVCard:
		var v VCard
		err := ask(p,
			field{"Full name: ", &v.Name},
			field{"Phone number: ", &v.Phone},
			field{"Email (optional): ", &v.Email},
			field{"Organization (optional): ", &v.Organization},
		)
		if err != nil {
			return "", err
		}
		return v.String(), nil

	case KindSMS:
		var s SMS
		if err := ask(p, field{"Phone number: ", &s.Phone}, field{"Message: ", &s.Message}); err != nil {
			return "", err
		}
		return s.String(), nil

	case KindEmail:
		var e Email
		err := ask(p,
			field{"Email address: ", &e.Address},
			field{"Subject (optional): ", &e.Subject},
			field{"Body (optional): ", &e.Body},
		)
		if err != nil {
			return "", err
		}
		return e.String(), nil

	case KindPhone:
		var phone string
		if err := ask(p, field{"Phone number: ", &phone}); err != nil {
			return "", err
		}
		return Format(KindPhone, phone)

	default:
		return "", errors.Errorf("%s template has no fields to collect", kind)
	}
}
