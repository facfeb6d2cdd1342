package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/severus/internal/config"
	apperrors "github.com/dropDatabas3/severus/internal/errors"
)

var version = "dev"

var errNotLoggedIn = apperrors.ErrNotLoggedIn

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, cleanup := newRootCmd(streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
	err := root.ExecuteContext(ctx)
	cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		stop()
		os.Exit(1)
	}
}

// newRootCmd arma el árbol de comandos. La app se construye en
// PersistentPreRunE, cuando ya se conocen los flags; cleanup la cierra
// (haya fallado o no el comando).
func newRootCmd(s streams) (*cobra.Command, func()) {
	g := &globals{
		configPath: config.DefaultPath(),
		out:        envOr("SEVERUS_OUT", "text"),
	}
	a := &app{}

	root := &cobra.Command{
		Use:           "severus",
		Short:         "Consola de administración de información tributaria municipal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch g.out {
			case "json", "text":
			default:
				return fmt.Errorf("--out debe ser json|text, no %q", g.out)
			}
			built, err := newApp(cmd.Context(), g, s)
			if err != nil {
				return err
			}
			*a = *built
			return nil
		},
	}
	root.SetIn(s.in)
	root.SetOut(s.out)
	root.SetErr(s.err)

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", g.configPath, "Archivo de configuración YAML (opcional)")
	pf.StringVar(&g.envFile, "env-file", "", "Archivo .env a cargar (default: .env del directorio actual, si existe)")
	pf.StringVar(&g.apiURL, "api-url", "", "URL base de la API (env SEVERUS_API_URL)")
	pf.StringVarP(&g.out, "out", "o", g.out, "Formato de salida: json|text (env SEVERUS_OUT)")
	pf.StringVar(&g.logLevel, "log-level", "", "Nivel de log: debug|info|warn|error (env LOG_LEVEL)")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newMunicipiosCmd(a),
		newFormulariosCmd(a),
		newAuditCmd(a),
	)
	cleanup := func() {
		if a.cfg != nil {
			a.close()
		}
	}
	return root, cleanup
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
