package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"semaphore/booking/internal/crypto"
	"semaphore/booking/internal/docstore"
	"semaphore/booking/internal/repository"
)

func newTestCLI(t *testing.T) (*commandLine, *repository.Store, *bytes.Buffer) {
	t.Helper()
	store := repository.NewStore(docstore.NewMemory(), "officeList", "offices")
	out := &bytes.Buffer{}
	return &commandLine{accounts: store, out: out}, store, out
}

func mockPassword(t *testing.T, pwd string, err error) {
	t.Helper()
	orig := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), err }
	t.Cleanup(func() { readPasswordFunc = orig })
}

func TestAddOffice(t *testing.T) {
	cli, store, out := newTestCLI(t)
	mockPassword(t, "s3cret", nil)

	err := cli.run(context.Background(), []string{"officeadmin", "add-office", "-username", "reg1", "-office", "Registrar"})
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	account, err := store.OfficeAccount(context.Background(), "reg1")
	if err != nil || account == nil {
		t.Fatalf("expected saved account, got %v err=%v", account, err)
	}
	if account.Office != "Registrar" {
		t.Fatalf("unexpected office %s", account.Office)
	}
	if err := crypto.CheckPassword(account.PasswordHash, "s3cret"); err != nil {
		t.Fatalf("expected stored hash to match password")
	}
	if !bytes.Contains(out.Bytes(), []byte("office account reg1 saved")) {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestAddOfficeUsage(t *testing.T) {
	cases := map[string][]string{
		"no command":      {"officeadmin"},
		"unknown command": {"officeadmin", "resetpassword"},
		"missing office":  {"officeadmin", "add-office", "-username", "reg1"},
	}
	for name, args := range cases {
		cli, _, _ := newTestCLI(t)
		if err := cli.run(context.Background(), args); !errors.Is(err, errHelp) {
			t.Fatalf("%s: expected errHelp, got %v", name, err)
		}
	}

	cli, _, _ := newTestCLI(t)
	mockPassword(t, "", nil)
	if err := cli.run(context.Background(), []string{"officeadmin", "add-office", "-username", "reg1", "-office", "Registrar"}); !errors.Is(err, errHelp) {
		t.Fatalf("expected errHelp for empty password, got %v", err)
	}
}

func TestAddOfficePromptError(t *testing.T) {
	cli, _, _ := newTestCLI(t)
	mockPassword(t, "", errors.New("not a terminal"))
	if err := cli.run(context.Background(), []string{"officeadmin", "add-office", "-username", "reg1", "-office", "Registrar"}); err == nil {
		t.Fatalf("expected prompt error")
	}
}
