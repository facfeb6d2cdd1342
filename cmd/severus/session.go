package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dropDatabas3/severus/internal/observability/logger"
)

func newLoginCmd(a *app) *cobra.Command {
	var passwordFile string
	cmd := &cobra.Command{
		Use:   "login <usuario>",
		Short: "Inicia sesión y guarda el access token",
		Long: `Autentica contra /usuarios/login y guarda el token en el archivo de sesión.

La contraseña se lee de --password-file (o "-" para stdin), de SEVERUS_PASSWORD,
o se pide por terminal sin eco.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(a, passwordFile)
			if err != nil {
				return err
			}
			tok, err := a.api.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			if err := a.store.SetToken(tok); err != nil {
				return fmt.Errorf("no se pudo guardar la sesión: %w", err)
			}
			claims, ok := a.store.Claims()
			if !ok {
				a.print.line("sesión iniciada (token sin claims legibles)")
				return nil
			}
			a.log.Info("login", logger.Subject(claims.Subject))
			a.print.line("sesión iniciada como %s (expira %s)", claims.Subject, formatExpiry(claims.ExpiresAt))
			return nil
		},
	}
	cmd.Flags().StringVar(&passwordFile, "password-file", "", `Archivo con la contraseña, o "-" para leerla de stdin`)
	return cmd
}

func readPassword(a *app, passwordFile string) (string, error) {
	switch {
	case passwordFile == "-":
		line, err := bufio.NewReader(a.io.in).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("no se pudo leer la contraseña de stdin: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	case passwordFile != "":
		b, err := os.ReadFile(passwordFile)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(b), "\r\n"), nil
	}
	if v := os.Getenv("SEVERUS_PASSWORD"); v != "" {
		return v, nil
	}
	f, ok := a.io.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", errors.New("no hay terminal para pedir la contraseña (use --password-file)")
	}
	fmt.Fprint(a.io.err, "Contraseña: ")
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(a.io.err)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesión y borra el token guardado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Clear(); err != nil {
				return err
			}
			a.print.line("sesión cerrada")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Muestra el usuario de la sesión actual",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			claims, ok := a.store.Claims()
			if a.print.isJSON() {
				return a.print.json(map[string]any{
					"authenticated": true,
					"sub":           claims.Subject,
					"exp":           claims.ExpiresAt,
					"claims":        claims.Raw,
				})
			}
			if !ok {
				a.print.line("sesión activa (token sin claims legibles)")
				return nil
			}
			a.print.line("usuario: %s", claims.Subject)
			a.print.line("expira:  %s", formatExpiry(claims.ExpiresAt))
			return nil
		},
	}
}

func formatExpiry(t time.Time) string {
	if t.IsZero() {
		return "nunca"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
