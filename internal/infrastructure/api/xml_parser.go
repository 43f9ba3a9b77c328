package api

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/damon-houk/nbp-exchange-rates/internal/domain/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/htmlindex"
)

// exchangeRatesSeries mirrors the NBP "ExchangeRatesSeries" document
type exchangeRatesSeries struct {
	Table    string    `xml:"Table"`
	Currency string    `xml:"Currency"`
	Code     string    `xml:"Code"`
	Rates    []xmlRate `xml:"Rates>Rate"`
}

type xmlRate struct {
	No            string `xml:"No"`
	EffectiveDate string `xml:"EffectiveDate"`
	Bid           string `xml:"Bid"`
	Ask           string `xml:"Ask"`
}

// XMLRateParser turns an NBP table C XML payload into exchange rates
type XMLRateParser struct{}

// NewXMLRateParser creates a new parser
func NewXMLRateParser() *XMLRateParser {
	return &XMLRateParser{}
}

// Parse decodes the payload and returns the rates in document order.
// A document without rates yields an empty slice.
func (p *XMLRateParser) Parse(body []byte) ([]entity.ExchangeRate, error) {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.CharsetReader = charsetReader

	root, err := rootElement(decoder)
	if err != nil {
		return nil, &entity.ParseError{Err: err}
	}

	var series exchangeRatesSeries
	if err := decoder.DecodeElement(&series, &root); err != nil {
		return nil, &entity.ParseError{Err: err}
	}

	if err := expectEOF(decoder); err != nil {
		return nil, &entity.ParseError{Err: err}
	}

	rates := make([]entity.ExchangeRate, 0, len(series.Rates))
	for i, r := range series.Rates {
		rate, err := r.toEntity()
		if err != nil {
			return nil, &entity.ParseError{Err: fmt.Errorf("rate %d: %w", i, err)}
		}
		rates = append(rates, rate)
	}

	return rates, nil
}

// rootElement skips the prolog and returns the document element.
// Text or markup other than comments, processing instructions and a doctype
// before it makes the document malformed.
func rootElement(decoder *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return xml.StartElement{}, errors.New("no root element")
		}
		if err != nil {
			return xml.StartElement{}, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return xml.StartElement{}, fmt.Errorf("unexpected text %q before root element", truncate(t))
			}
		case xml.ProcInst, xml.Comment, xml.Directive:
		default:
			return xml.StartElement{}, fmt.Errorf("unexpected %T before root element", tok)
		}
	}
}

// expectEOF fails on anything but whitespace, comments and processing
// instructions after the document element.
func expectEOF(decoder *xml.Decoder) error {
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("unexpected text %q after root element", truncate(t))
			}
		case xml.ProcInst, xml.Comment:
		case xml.StartElement:
			return fmt.Errorf("extra element <%s> after root element", t.Name.Local)
		default:
			return fmt.Errorf("unexpected %T after root element", tok)
		}
	}
}

func truncate(b []byte) string {
	const limit = 32
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

func (r xmlRate) toEntity() (entity.ExchangeRate, error) {
	date, err := time.Parse(entity.DateLayout, strings.TrimSpace(r.EffectiveDate))
	if err != nil {
		return entity.ExchangeRate{}, fmt.Errorf("invalid effective date %q: %w", r.EffectiveDate, err)
	}

	bid, err := parseDecimal(r.Bid)
	if err != nil {
		return entity.ExchangeRate{}, fmt.Errorf("invalid bid %q: %w", r.Bid, err)
	}

	ask, err := parseDecimal(r.Ask)
	if err != nil {
		return entity.ExchangeRate{}, fmt.Errorf("invalid ask %q: %w", r.Ask, err)
	}

	return entity.ExchangeRate{
		Date:     date,
		BuyRate:  bid,
		SellRate: ask,
	}, nil
}

// parseDecimal accepts both "4,3256" and "4.3256"
func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
}

// charsetReader decodes documents declared in a non UTF-8 encoding
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
