// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/momeni/dealership/pkg/adapter/config"
	"github.com/momeni/dealership/pkg/adapter/imgcache"
	"github.com/momeni/dealership/pkg/adapter/recordsvc"
	"github.com/momeni/dealership/pkg/core/cerr"
	"github.com/momeni/dealership/pkg/core/log"
	"github.com/momeni/dealership/pkg/core/model"
	"github.com/momeni/dealership/pkg/core/usecase/inventoryuc"
	"github.com/momeni/dealership/pkg/core/usecase/workflowuc"
	"github.com/spf13/cobra"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Terminal inventory management front-end",
	Long: `Terminal inventory management front-end which manages the
car records of a remotely deployed record service instance. One
status filter is active at a time; its car records are listed with
row numbers which may be passed to the action commands. Reserving or
selling a car collects a customer record first and every action asks
for an explicit confirmation before it may be submitted.`,
	RunE: runInventory,
}

func init() {
	rootCmd.AddCommand(inventoryCmd)
}

func runInventory(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	svc, err := recordsvc.New(c.Client.BaseURL)
	if err != nil {
		return fmt.Errorf("creating record service client: %w", err)
	}
	query, err := inventoryuc.NewQuery(svc, model.CarStatusAvailable)
	if err != nil {
		return fmt.Errorf("creating inventory query: %w", err)
	}
	cache, err := imgcache.New(svc)
	if err != nil {
		return fmt.Errorf("creating pictures cache: %w", err)
	}
	defer cache.Close()
	t := &terminal{
		in:  bufio.NewScanner(os.Stdin),
		out: os.Stdout,
	}
	inv := inventoryuc.New(svc)
	s := &session{
		term:  t,
		inv:   inv,
		wf:    workflowuc.New(inv, t, t),
		query: query,
		cache: cache,
	}
	return s.run(ctx)
}

// session holds the state of one interactive inventory session:
// the active query filter and the last listed records (whose row
// numbers the action commands refer to).
type session struct {
	term  *terminal
	inv   *inventoryuc.UseCase
	wf    *workflowuc.UseCase
	query *inventoryuc.Query
	cache *imgcache.Cache

	cars []model.Car
}

func (s *session) run(ctx context.Context) error {
	if err := s.refresh(ctx); err != nil {
		return err
	}
	for {
		line, ok := s.term.readLine("> ")
		if !ok {
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := s.dispatch(ctx, fields); err != nil {
			log.Error(ctx, "inventory command failed",
				log.Err("reason", err),
			)
			s.term.printf("error: %v\n", err)
			if cerr.IsNotFound(err) {
				// another client destroyed the record; the listing
				// no longer reflects reality
				if err := s.refresh(ctx); err != nil {
					return err
				}
			}
		}
	}
}

func (s *session) dispatch(ctx context.Context, fields []string) error {
	switch cmd, args := fields[0], fields[1:]; cmd {
	case "help":
		s.term.printf("%s", helpText)
		return nil
	case "list":
		return s.refresh(ctx)
	case "status":
		if len(args) != 1 {
			return errors.New("usage: status <available|reserved|sold>")
		}
		status, err := model.ParseCarStatus(args[0])
		if err != nil {
			return err
		}
		if err := s.query.Switch(status); err != nil {
			return err
		}
		return s.refresh(ctx)
	case "add":
		return s.add(ctx)
	case "edit":
		car, err := s.pick(args)
		if err != nil {
			return err
		}
		return s.edit(ctx, car)
	case "image":
		car, err := s.pick(args)
		if err != nil {
			return err
		}
		h, err := s.cache.Resolve(ctx, *car)
		if err != nil {
			return err
		}
		s.term.printf("picture saved at %s\n", h.Path())
		return nil
	case "reserve", "sell", "delete", "cancel":
		action, err := model.ParseAction(cmd)
		if err != nil {
			return err
		}
		car, err := s.pick(args)
		if err != nil {
			return err
		}
		done, err := s.wf.Act(ctx, action, car)
		if err != nil {
			return err
		}
		if !done {
			s.term.printf("dismissed\n")
			return nil
		}
		return s.refresh(ctx)
	default:
		return fmt.Errorf("unknown command: %q (try help)", cmd)
	}
}

// refresh re-queries the active filter and re-renders the listing.
// Every applied action invalidates the displayed set, so callers run
// it after each successful transition instead of patching rows in
// place.
func (s *session) refresh(ctx context.Context) error {
	cars, err := s.query.List(ctx)
	if err != nil {
		if errors.Is(err, inventoryuc.ErrStaleList) {
			return s.refresh(ctx)
		}
		return err
	}
	s.cars = cars
	s.cache.Sync(cars)
	s.term.printf("-- %s cars --\n", s.query.Active())
	for i, car := range cars {
		line := fmt.Sprintf(
			"%2d. %s %s (%d) $%.2f",
			i+1, car.Make, car.Model, car.Year, car.Price,
		)
		if car.Customer != nil {
			line += " / " + car.Customer.FullName
		}
		s.term.printf("%s\n", line)
	}
	return nil
}

// pick resolves a one-based row number argument against the last
// rendered listing.
func (s *session) pick(args []string) (*model.Car, error) {
	if len(args) != 1 {
		return nil, errors.New("expected a single row number")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(s.cars) {
		return nil, fmt.Errorf("no row %q in the listing", args[0])
	}
	return &s.cars[n-1], nil
}

func (s *session) add(ctx context.Context) error {
	details, picture, err := s.collectCarForm(model.CarDetails{})
	if err != nil {
		return err
	}
	if picture == nil {
		return errors.New("a picture is required for a new car")
	}
	if _, err := s.inv.Create(ctx, details, *picture); err != nil {
		return err
	}
	return s.refresh(ctx)
}

func (s *session) edit(ctx context.Context, car *model.Car) error {
	current, err := s.wf.BeginEdit(car)
	if err != nil {
		return err
	}
	details, picture, err := s.collectCarForm(current)
	if err != nil {
		return err
	}
	if _, err := s.inv.Update(ctx, car, details, picture); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// collectCarForm prompts for the car fields, pre-filling them with
// the given defaults (empty for the creation flow). The picture is
// asked as a local file path and may be left empty in order to keep
// the stored picture during an edit.
func (s *session) collectCarForm(d model.CarDetails) (
	model.CarDetails, *model.Attachment, error,
) {
	var zero model.CarDetails
	makeStr, ok := s.term.readField("make", d.Make)
	if !ok {
		return zero, nil, errors.New("input closed")
	}
	modelStr, ok := s.term.readField("model", d.Model)
	if !ok {
		return zero, nil, errors.New("input closed")
	}
	yearStr, ok := s.term.readField("year", strconv.Itoa(d.Year))
	if !ok {
		return zero, nil, errors.New("input closed")
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return zero, nil, fmt.Errorf("year must be a number: %w", err)
	}
	priceStr, ok := s.term.readField(
		"price", strconv.FormatFloat(d.Price, 'f', -1, 64),
	)
	if !ok {
		return zero, nil, errors.New("input closed")
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return zero, nil, fmt.Errorf("price must be a number: %w", err)
	}
	path, ok := s.term.readField("picture path", "")
	if !ok {
		return zero, nil, errors.New("input closed")
	}
	details := model.CarDetails{
		Make:  makeStr,
		Model: modelStr,
		Year:  year,
		Price: price,
	}
	if path == "" {
		return details, nil, nil
	}
	picture, err := loadPicture(path)
	if err != nil {
		return zero, nil, err
	}
	return details, picture, nil
}

func loadPicture(path string) (*model.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading picture file: %w", err)
	}
	return &model.Attachment{
		Name:        filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

// terminal adapts the standard input/output streams with the
// workflowuc presentation interfaces, asking for confirmations and
// customer records over the terminal.
type terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

// Confirm implements workflowuc.Confirmer. Anything but an explicit
// "y" answer dismisses the dialog.
func (t *terminal) Confirm(
	_ context.Context, p workflowuc.Prompt,
) (bool, error) {
	t.present(p)
	answer, ok := t.readLine("proceed? [y/N] ")
	if !ok {
		return false, nil
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y"), nil
}

// Collect implements workflowuc.CustomerForm. An empty full name
// dismisses the form.
func (t *terminal) Collect(
	ctx context.Context, p workflowuc.Prompt,
) (model.Customer, bool, error) {
	t.present(p)
	c := model.Customer{}
	var ok bool
	if c.FullName, ok = t.readField("full name", ""); !ok ||
		c.FullName == "" {
		return model.Customer{}, false, nil
	}
	if c.Email, ok = t.readField("email", ""); !ok {
		return model.Customer{}, false, nil
	}
	if c.PhoneNumber, ok = t.readField("phone number", ""); !ok {
		return model.Customer{}, false, nil
	}
	confirmed, err := t.Confirm(ctx, workflowuc.Prompt{})
	if err != nil || !confirmed {
		return model.Customer{}, false, err
	}
	return c, true, nil
}

func (t *terminal) present(p workflowuc.Prompt) {
	if p.Title != "" {
		t.printf("%s\n", p.Title)
	}
	if p.Message != "" {
		t.printf("%s\n", p.Message)
	}
	if p.Warning != "" {
		t.printf("warning: %s\n", p.Warning)
	}
}

// readField prompts for one field value, returning the given default
// when the answer is left empty.
func (t *terminal) readField(name, def string) (string, bool) {
	label := name
	if def != "" && def != "0" {
		label = fmt.Sprintf("%s [%s]", name, def)
	}
	answer, ok := t.readLine(label + ": ")
	if !ok {
		return "", false
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def, true
	}
	return answer, true
}

func (t *terminal) readLine(prompt string) (string, bool) {
	t.printf("%s", prompt)
	if !t.in.Scan() {
		return "", false
	}
	return t.in.Text(), true
}

func (t *terminal) printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

const helpText = `commands:
  list                  re-query the active status filter
  status <name>         switch the filter (available, reserved, sold)
  add                   create a new car record
  edit <n>              update the descriptive fields of row n
  image <n>             materialize the picture of row n as a file
  reserve <n>           reserve row n for a customer
  sell <n>              sell row n to a customer
  cancel <n>            cancel the reservation of row n
  delete <n>            delete row n
  quit                  leave the session
`
