package trader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/signalline/futures-trader/internal/api"
	"github.com/signalline/futures-trader/internal/monitor"
	"github.com/signalline/futures-trader/internal/order"
)

// OrderPlacer submits a built order to the exchange.
type OrderPlacer interface {
	PlaceOrder(*order.Request) (*api.OrderAck, error)
}

// Session drives the interactive order-entry loop. It owns no state beyond
// the client handle; every iteration starts fresh from the menu.
type Session struct {
	client OrderPlacer
	log    *monitor.Logger
	in     *bufio.Reader
	out    io.Writer
}

// NewSession wires the session to a client, a logger and the console streams.
func NewSession(client OrderPlacer, log *monitor.Logger, in io.Reader, out io.Writer) *Session {
	return &Session{
		client: client,
		log:    log,
		in:     bufio.NewReader(in),
		out:    out,
	}
}

// Run loops the order-entry menu until the user exits or input ends.
// A failed order never ends the session; it is reported and the menu
// is shown again.
func (s *Session) Run() error {
	for {
		s.printMenu()
		choice, err := s.readLine("Enter order type (1-4): ")
		if err != nil {
			return s.endOfInput(err)
		}

		switch choice {
		case "1", "2", "3":
		case "4":
			s.log.Info("Exiting trader. Goodbye!")
			return nil
		default:
			s.log.Warn("Invalid choice. Please select 1, 2, 3, or 4.")
			continue
		}

		req, err := s.collectOrder(choice)
		if err != nil {
			var validationErr *order.ValidationError
			if errors.As(err, &validationErr) {
				s.log.Warnf("Order rejected: %v", validationErr)
				continue
			}
			return s.endOfInput(err)
		}
		s.submit(req)
	}
}

func (s *Session) printMenu() {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "--- Place a New Order ---")
	fmt.Fprintln(s.out, "1. Market Order")
	fmt.Fprintln(s.out, "2. Limit Order")
	fmt.Fprintln(s.out, "3. Stop-Limit Order")
	fmt.Fprintln(s.out, "4. Exit")
}

// collectOrder walks the per-field prompts for the chosen order type and
// builds the request. Invalid input re-prompts the same field.
func (s *Session) collectOrder(choice string) (*order.Request, error) {
	symbol, err := s.readSymbol()
	if err != nil {
		return nil, err
	}
	side, err := s.readSide()
	if err != nil {
		return nil, err
	}
	quantity, err := s.readPositiveDecimal("Enter quantity: ")
	if err != nil {
		return nil, err
	}

	switch choice {
	case "1":
		return order.Market(symbol, side, quantity)
	case "2":
		price, err := s.readPositiveDecimal("Enter limit price: ")
		if err != nil {
			return nil, err
		}
		tif, err := s.readTimeInForce()
		if err != nil {
			return nil, err
		}
		return order.Limit(symbol, side, quantity, price, tif)
	default:
		price, err := s.readPositiveDecimal("Enter limit price for stop-limit order: ")
		if err != nil {
			return nil, err
		}
		stopPrice, err := s.readPositiveDecimal("Enter stop price: ")
		if err != nil {
			return nil, err
		}
		tif, err := s.readTimeInForce()
		if err != nil {
			return nil, err
		}
		return order.Stop(symbol, side, quantity, price, stopPrice, tif)
	}
}

// submit sends the order and reports either the acknowledgment or the
// classified failure.
func (s *Session) submit(req *order.Request) {
	s.log.Infof("Attempting to place a %s order for %s (%s)...", req.Type, req.Symbol, req.Side)

	ack, err := s.client.PlaceOrder(req)
	if err != nil {
		diagnosis := Classify(err)
		s.log.WithField("category", diagnosis.Category).Errorf("Order placement failed: %v", err)
		if diagnosis.Hint != "" {
			s.log.Errorf("Action required: %s", diagnosis.Hint)
		}
		return
	}

	s.log.WithFields(logrus.Fields{
		"symbol": ack.Symbol,
		"side":   ack.Side,
		"type":   ack.Type,
	}).Info("Order placed successfully!")
	s.log.Infof("Order ID: %d", ack.OrderID)
	s.log.Infof("Client Order ID: %s", ack.ClientOrderID)
	s.log.Infof("Status: %s", ack.Status)
	s.log.Infof("Executed Quantity: %s", ack.ExecutedQty)
	s.log.Infof("Cum Quote Quantity: %s", ack.CumQuote)
}

func (s *Session) readSymbol() (string, error) {
	for {
		symbol, err := s.readLine("Enter trading pair (e.g., BTCUSDT): ")
		if err != nil {
			return "", err
		}
		if symbol == "" {
			s.log.Warn("Symbol cannot be empty.")
			continue
		}
		return strings.ToUpper(symbol), nil
	}
}

func (s *Session) readSide() (order.Side, error) {
	for {
		input, err := s.readLine("Enter order side (BUY/SELL): ")
		if err != nil {
			return "", err
		}
		side, err := order.ParseSide(input)
		if err != nil {
			s.log.Warn("Invalid side. Please enter 'BUY' or 'SELL'.")
			continue
		}
		return side, nil
	}
}

func (s *Session) readPositiveDecimal(prompt string) (decimal.Decimal, error) {
	for {
		input, err := s.readLine(prompt)
		if err != nil {
			return decimal.Decimal{}, err
		}
		value, err := decimal.NewFromString(input)
		if err != nil {
			s.log.Warn("Invalid input. Please enter a valid number.")
			continue
		}
		if !value.IsPositive() {
			s.log.Warn("Input must be greater than 0. Please try again.")
			continue
		}
		return value, nil
	}
}

// readTimeInForce never rejects: empty input takes the GTC default and
// unrecognized input is replaced with GTC after a warning.
func (s *Session) readTimeInForce() (order.TimeInForce, error) {
	input, err := s.readLine("Enter TimeInForce (GTC/IOC/FOK, default GTC): ")
	if err != nil {
		return "", err
	}
	tif, ok := order.ParseTimeInForce(input)
	if !ok {
		s.log.Warn("Invalid TimeInForce. Using GTC.")
	}
	return tif, nil
}

func (s *Session) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Session) endOfInput(err error) error {
	if err == io.EOF {
		s.log.Info("Input closed, exiting trader.")
		return nil
	}
	return err
}
