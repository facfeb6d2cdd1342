package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/dropDatabas3/severus/internal/errors"
	"github.com/dropDatabas3/severus/internal/formdoc"
	"github.com/dropDatabas3/severus/internal/listview"
	"github.com/dropDatabas3/severus/internal/observability/logger"
)

func newFormulariosCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "formularios",
		Aliases: []string{"form"},
		Short:   "Documentos versionados de información tributaria",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// cobra no encadena PersistentPreRunE: se invoca el del raíz a mano
			if root := cmd.Root(); root.PersistentPreRunE != nil {
				if err := root.PersistentPreRunE(cmd, args); err != nil {
					return err
				}
			}
			return a.requireSession()
		},
	}
	cmd.AddCommand(
		newFormListCmd(a),
		newFormGetCmd(a),
		newFormCreateCmd(a),
		newFormEditCmd(a),
		newFormToggleCmd(a),
		newFormNextVersionCmd(a),
		newFormFieldsCmd(a),
	)
	return cmd
}

func newFormListCmd(a *app) *cobra.Command {
	var search string
	var pageN int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista todas las versiones; busca por código de municipio o versión",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := a.api.ListFormularios(cmd.Context())
			if err != nil {
				return err
			}
			v := listview.Formularios(a.cfg.List.PageSize)
			v.SetItems(docs)
			v.SetSearch(search)
			v.SetPage(pageN)

			items := v.PageItems()
			if a.print.isJSON() {
				return a.print.json(page[formdoc.Document]{
					Page: v.Page(), Pages: v.Pages(), Total: v.Filtered(),
					HasNext: v.HasNext(), HasPrev: v.HasPrev(), Items: items,
				})
			}
			// el nombre es cosmético: si la lista de municipios no carga se omite
			if _, err := a.muni.All(cmd.Context()); err != nil {
				a.log.Debug("sin nombres de municipio", logger.Err(err))
			}
			rows := make([][]string, 0, len(items))
			for _, d := range items {
				name, _ := a.muni.Name(d.CodigoMunicipio)
				rows = append(rows, []string{d.CodigoMunicipio, name, d.Version, yesNo(d.Activo)})
			}
			if err := a.print.table([]string{"MUNICIPIO", "NOMBRE", "VERSION", "ACTIVO"}, rows); err != nil {
				return err
			}
			a.print.footer(v.Page(), v.Pages(), v.Filtered(), v.HasPrev(), v.HasNext())
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Texto a buscar en código de municipio o versión")
	cmd.Flags().IntVarP(&pageN, "page", "p", 1, "Página (desde 1)")
	return cmd
}

func newFormGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <codigo_municipio> <version>",
		Short: "Muestra un documento",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.api.GetFormulario(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if a.print.isJSON() {
				return a.print.json(doc)
			}
			printSummary(a.print, doc)
			return nil
		},
	}
}

func printSummary(p *printer, d formdoc.Document) {
	p.line("municipio:  %s", d.CodigoMunicipio)
	p.line("versión:    %s", d.Version)
	p.line("activo:     %s", yesNo(d.Activo))
	p.line("url_pdf:    %s", d.URLPDF)
	p.line("calendario: %s", d.CalendarioTributario)
	p.line("ica:        %s", d.ImpuestoIndustriaComercio)
	p.line("")

	rows := [][]string{}
	for _, f := range formdoc.FieldsOf(formdoc.KindArticles) {
		arts, _ := d.Articles(f)
		rows = append(rows, []string{f, formdoc.KindArticles.String(), fmt.Sprint(len(arts))})
	}
	for _, f := range formdoc.FieldsOf(formdoc.KindDates) {
		es, _ := d.DateEntries(f)
		vals := make([]string, 0, len(es))
		for _, e := range es {
			vals = append(vals, e.Value)
		}
		rows = append(rows, []string{f, formdoc.KindDates.String(), strings.Join(vals, "; ")})
	}
	rows = append(rows,
		[]string{formdoc.FieldPeriodicidad, formdoc.KindPeriodicity.String(), fmt.Sprint(len(d.Periodicidad))},
		[]string{formdoc.FieldMediosMagneticos, formdoc.KindMedia.String(), fmt.Sprint(len(d.MediosMagneticos))},
	)
	_ = p.table([]string{"CAMPO", "TIPO", "CONTENIDO"}, rows)
}

func newFormCreateCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create --file borrador.yaml",
		Short: "Crea un documento nuevo con la siguiente versión del municipio",
		Long: `Lee un borrador YAML (fechas en formato ISO 2025-01-09) y lo crea con la
versión siguiente del municipio (0.0.N+1, o 0.0.1 si no tiene versiones).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeFn, err := openInput(a, file)
			if err != nil {
				return err
			}
			defer closeFn()
			draft, err := formdoc.ParseDraft(r)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if _, err := a.muni.All(ctx); err != nil {
				return err
			}
			if _, ok := a.muni.Name(draft.CodigoMunicipio); !ok {
				return apperrors.ErrInvalidValue.WithDetail("municipio desconocido: " + draft.CodigoMunicipio)
			}
			existing, err := a.api.ListFormularios(ctx)
			if err != nil {
				return err
			}
			doc, err := draft.Document(formdoc.NextVersion(draft.CodigoMunicipio, existing))
			if err != nil {
				return err
			}
			created, err := a.api.CreateFormulario(ctx, doc)
			if err != nil {
				return err
			}
			if created.CodigoMunicipio == "" {
				created = doc
			}
			a.audit.Created(ctx, created.CodigoMunicipio, created.Version)
			if a.print.isJSON() {
				return a.print.json(created)
			}
			a.print.line("formulario creado: %s versión %s", created.CodigoMunicipio, created.Version)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", `Borrador YAML ("-" para stdin)`)
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newFormEditCmd(a *app) *cobra.Command {
	var opsFile string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "edit <codigo_municipio> <version> --ops script.yaml",
		Short: "Aplica un script de operaciones y guarda el documento completo",
		Long: `Trae el documento, abre una edición, aplica las operaciones del script (todo o
nada) y guarda con un reemplazo completo. Con --dry-run sólo muestra el resultado.

Operaciones: set_scalar, set_article_field, add_article, remove_article,
set_date, add_date, remove_date, set_object_field, add_object, remove_object.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeFn, err := openInput(a, opsFile)
			if err != nil {
				return err
			}
			defer closeFn()
			ops, err := formdoc.ParseOps(r)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			doc, err := a.api.GetFormulario(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			ed := formdoc.NewEditor(doc, a.api)
			ed.Begin()
			if err := ed.Apply(ops...); err != nil {
				return err
			}
			log := a.log.With(logger.Municipio(args[0]), logger.Version(args[1]), logger.Count(len(ops)))
			if dryRun {
				log.Debug("dry-run")
				return a.print.json(ed.Buffer())
			}
			saved, err := ed.Save(ctx)
			if err != nil {
				return err
			}
			log.Info("documento guardado")
			a.audit.Edited(ctx, saved.CodigoMunicipio, saved.Version)
			if a.print.isJSON() {
				return a.print.json(saved)
			}
			a.print.line("guardado: %s versión %s (%d operaciones)", args[0], args[1], len(ops))
			return nil
		},
	}
	cmd.Flags().StringVar(&opsFile, "ops", "", `Script YAML de operaciones ("-" para stdin)`)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "No guarda; imprime el documento resultante")
	_ = cmd.MarkFlagRequired("ops")
	return cmd
}

func newFormToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <codigo_municipio> <version>",
		Short: "Invierte activo y guarda de inmediato",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := a.api.GetFormulario(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			saved, err := formdoc.NewEditor(doc, a.api).ToggleActive(ctx)
			if err != nil {
				return err
			}
			a.audit.Toggled(ctx, args[0], args[1], saved.Activo)
			if a.print.isJSON() {
				return a.print.json(map[string]any{
					"codigo_municipio": args[0], "version": args[1], "activo": saved.Activo,
				})
			}
			a.print.line("%s versión %s: activo=%s", args[0], args[1], yesNo(saved.Activo))
			return nil
		},
	}
}

func newFormNextVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "next-version <codigo_municipio>",
		Short: "Muestra la versión que tendría un documento nuevo del municipio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := a.api.ListFormularios(cmd.Context())
			if err != nil {
				return err
			}
			next := formdoc.NextVersion(args[0], docs)
			if a.print.isJSON() {
				return a.print.json(map[string]string{"codigo_municipio": args[0], "version": next})
			}
			a.print.line("%s", next)
			return nil
		},
	}
}

func newFormFieldsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "Lista los campos editables y su tipo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := []formdoc.Kind{formdoc.KindScalar, formdoc.KindArticles, formdoc.KindDates, formdoc.KindPeriodicity, formdoc.KindMedia}
			if a.print.isJSON() {
				out := map[string][]string{}
				for _, k := range kinds {
					out[k.String()] = formdoc.FieldsOf(k)
				}
				return a.print.json(out)
			}
			rows := [][]string{}
			for _, k := range kinds {
				for _, f := range formdoc.FieldsOf(k) {
					rows = append(rows, []string{f, k.String()})
				}
			}
			return a.print.table([]string{"CAMPO", "TIPO"}, rows)
		},
	}
}

// openInput abre path, o stdin si path es "-".
func openInput(a *app, path string) (io.Reader, func(), error) {
	if path == "-" {
		return a.io.in, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
