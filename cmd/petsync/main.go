// petsync es el cliente de línea de comandos: mantiene la sesión en disco (o redis)
// y sincroniza mascotas y registros con la API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"pet-medical-records/internal/apperr"
	"pet-medical-records/internal/config"
	"pet-medical-records/internal/domain/pets"
	"pet-medical-records/internal/domain/records"
	"pet-medical-records/internal/platform/logger"
	"pet-medical-records/internal/session"
	"pet-medical-records/internal/syncclient"
)

const usage = `usage: petsync <command> [flags]

commands:
  register      -email -name -password
  login         -email -password
  logout
  whoami
  pets
  add-pet       -name -type -breed -dob
  update-pet    -id [-name -type -breed -dob]
  delete-pet    -id
  records       -pet
  add-record    -pet -type -name [-date | -reactions -severity | -dosage -instructions]
  update-record -id -type [-name -date -reactions -severity -dosage -instructions]
  delete-record -id
`

func main() {
	_ = godotenv.Load()

	cfg := config.LoadClient()
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.FormatText,
		App:    "petsync",
		Output: os.Stderr,
	})

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	kv, closeKV, err := openKV(cfg)
	if err != nil {
		log.Error("open session store", map[string]any{"error": err})
		os.Exit(1)
	}
	defer closeKV()

	tr, err := syncclient.NewHTTPTransport(cfg.APIURL, cfg.Timeout)
	if err != nil {
		log.Error("invalid api url", map[string]any{"error": err})
		os.Exit(1)
	}
	c := syncclient.New(tr, session.NewManager(kv, log), log)

	if err := run(context.Background(), c, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", apperr.Message(err))
		if apperr.Retryable(err) {
			fmt.Fprintln(os.Stderr, "(network error, try again)")
		}
		closeKV()
		os.Exit(1)
	}
}

func openKV(cfg *config.ClientConfig) (session.KV, func(), error) {
	switch cfg.SessionDriver {
	case "memory":
		return session.NewMemoryKV(), func() {}, nil
	case "redis":
		kv := session.NewRedisKV(session.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB))
		return kv, func() { _ = kv.Close() }, nil
	case "sqlite", "":
		kv, err := session.OpenSQLiteKV(cfg.SessionPath)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { _ = kv.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown PETSYNC_SESSION_DRIVER %q", cfg.SessionDriver)
	}
}

func run(ctx context.Context, c *syncclient.Client, cmd string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	switch cmd {
	case "register":
		email, name, password := fs.String("email", "", ""), fs.String("name", "", ""), fs.String("password", "", "")
		if err := parse(fs, args); err != nil {
			return err
		}
		u, err := c.Register(ctx, *email, *name, *password)
		if err != nil {
			return err
		}
		return printJSON(out, u)

	case "login":
		email, password := fs.String("email", "", ""), fs.String("password", "", "")
		if err := parse(fs, args); err != nil {
			return err
		}
		u, err := c.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		return printJSON(out, map[string]any{"user": u, "pets": c.Pets()})

	case "logout":
		return c.SignOut(ctx)
	}

	// El resto necesita sesión restaurada.
	u, err := c.Restore(ctx)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.New(apperr.KindUnauthorized, "Not logged in")
	}

	switch cmd {
	case "whoami":
		return printJSON(out, u)

	case "pets":
		return printJSON(out, c.Pets())

	case "add-pet":
		name, typ, breed, dob := fs.String("name", "", ""), fs.String("type", "", ""), fs.String("breed", "", ""), fs.String("dob", "", "")
		if err := parse(fs, args); err != nil {
			return err
		}
		p, err := c.CreatePet(ctx, pets.Input{Name: *name, Type: pets.Type(*typ), Breed: *breed, DateOfBirth: *dob})
		if err != nil {
			return err
		}
		return printJSON(out, p)

	case "update-pet":
		id := fs.String("id", "", "")
		var patch pets.Patch
		fs.Func("name", "", func(s string) error { patch.Name = &s; return nil })
		fs.Func("type", "", func(s string) error { t := pets.Type(s); patch.Type = &t; return nil })
		fs.Func("breed", "", func(s string) error { patch.Breed = &s; return nil })
		fs.Func("dob", "", func(s string) error { patch.DateOfBirth = &s; return nil })
		if err := parse(fs, args); err != nil {
			return err
		}
		p, err := c.UpdatePet(ctx, *id, patch)
		if err != nil {
			return err
		}
		return printJSON(out, p)

	case "delete-pet":
		id := fs.String("id", "", "")
		if err := parse(fs, args); err != nil {
			return err
		}
		return c.DeletePet(ctx, *id)

	case "records":
		petID := fs.String("pet", "", "")
		if err := parse(fs, args); err != nil {
			return err
		}
		rs, err := c.LoadRecords(ctx, *petID)
		if err != nil {
			return err
		}
		return printJSON(out, rs)

	case "add-record":
		petID := fs.String("pet", "", "")
		in := recordFlags(fs)
		if err := parse(fs, args); err != nil {
			return err
		}
		rec, err := c.CreateRecord(ctx, *petID, *in)
		if err != nil {
			return err
		}
		return printJSON(out, rec)

	case "update-record":
		id := fs.String("id", "", "")
		in := recordFlags(fs)
		if err := parse(fs, args); err != nil {
			return err
		}
		rec, err := c.UpdateRecord(ctx, *id, *in)
		if err != nil {
			return err
		}
		return printJSON(out, rec)

	case "delete-record":
		id := fs.String("id", "", "")
		if err := parse(fs, args); err != nil {
			return err
		}
		return c.DeleteRecord(ctx, *id)

	default:
		return apperr.Newf(apperr.KindMalformed, "unknown command %q", cmd)
	}
}

// recordFlags registra los flags de un registro; solo los que se pasan quedan seteados.
func recordFlags(fs *flag.FlagSet) *records.Input {
	in := &records.Input{}
	fs.Func("type", "", func(s string) error { in.Type = records.Type(s); return nil })
	fs.Func("name", "", func(s string) error { in.Name = &s; return nil })
	fs.Func("date", "", func(s string) error { in.DateAdministered = &s; return nil })
	fs.Func("reactions", "", func(s string) error {
		for _, r := range strings.Split(s, ",") {
			if r = strings.TrimSpace(r); r != "" {
				in.Reactions = append(in.Reactions, records.Reaction(r))
			}
		}
		return nil
	})
	fs.Func("severity", "", func(s string) error { sv := records.Severity(s); in.Severity = &sv; return nil })
	fs.Func("dosage", "", func(s string) error {
		var d float64
		if _, err := fmt.Sscanf(s, "%g", &d); err != nil {
			return errors.New("dosage must be a number")
		}
		in.Dosage = &d
		return nil
	})
	fs.Func("instructions", "", func(s string) error { in.Instructions = &s; return nil })
	return in
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return apperr.Wrap(apperr.KindMalformed, fmt.Sprintf("%s: %v\n\n%s", fs.Name(), err, usage), err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
