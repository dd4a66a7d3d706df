package commands

import (
	"fmt"
	"io"
	"net/url"

	"github.com/tillhub/tpos"
)

type requestFlags struct {
	payloadFile  string
	defaultsFile string
	payloadType  string
	action       string
	autoReturn   bool
	comment      string
}

// outgoing is a built request and its encoded URL.
type outgoing struct {
	req tpos.Deliverable
	url *url.URL
}

func (a *appContext) buildRequest(f requestFlags, in io.Reader) (outgoing, error) {
	if a.cfg.ClientID == "" {
		return outgoing{}, fmt.Errorf("client id required (--client-id or TPOS_CLIENT_ID)")
	}
	d, err := a.dispatcher(nil)
	if err != nil {
		return outgoing{}, err
	}
	payloadType := tpos.PayloadType(f.payloadType)
	opts := []tpos.HeaderOption{tpos.WithHeaderComment(f.comment)}
	if f.autoReturn {
		opts = append(opts, tpos.WithAutoReturn())
	}
	header, err := d.NewRequestHeader(a.cfg.ClientID, tpos.ActionPath(f.action), payloadType, a.cfg.CallbackScheme, opts...)
	if err != nil {
		return outgoing{}, err
	}

	switch payloadType {
	case tpos.PayloadTypeCart:
		cart, err := loadCart(f.payloadFile, in)
		if err != nil {
			return outgoing{}, err
		}
		if f.defaultsFile != "" {
			if cart, err = cartWithDefaults(f.defaultsFile, cart); err != nil {
				return outgoing{}, err
			}
		}
		return encodeOutgoing(a.codec, header, cart, a.cfg.Target)
	case tpos.PayloadTypeCartReference:
		ref, err := loadCartReference(f.payloadFile, in)
		if err != nil {
			return outgoing{}, err
		}
		if f.defaultsFile != "" {
			if ref, err = cartReferenceWithDefaults(f.defaultsFile, ref); err != nil {
				return outgoing{}, err
			}
		}
		return encodeOutgoing(a.codec, header, ref, a.cfg.Target)
	default:
		return outgoing{}, fmt.Errorf("unknown payload type %q", f.payloadType)
	}
}

func encodeOutgoing[P tpos.Payload](c *tpos.Codec, header tpos.RequestHeader, payload P, target string) (outgoing, error) {
	req, err := tpos.NewRequest(header, payload)
	if err != nil {
		return outgoing{}, err
	}
	u, err := tpos.EncodeRequest(c, req, target)
	if err != nil {
		return outgoing{}, err
	}
	return outgoing{req: req, url: u}, nil
}
