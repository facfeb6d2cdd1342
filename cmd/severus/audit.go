package main

import (
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/severus/internal/api"
	"github.com/dropDatabas3/severus/internal/listview"
)

func newAuditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Log de auditoría",
	}

	var (
		search string
		filter listview.AuditFilter
		pageN  int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista el log de auditoría",
		Long: `Lista el log de auditoría. --search busca en usuario, acción y detalles;
--usuario, --accion y --detalles filtran por columna (todos deben cumplirse).
La búsqueda ignora mayúsculas pero no tildes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			entries, err := a.api.ListAudit(cmd.Context())
			if err != nil {
				return err
			}
			v := listview.Audit(a.cfg.List.PageSize)
			v.SetItems(filter.Apply(entries))
			v.SetSearch(search)
			v.SetPage(pageN)

			items := v.PageItems()
			if a.print.isJSON() {
				return a.print.json(page[api.AuditEntry]{
					Page: v.Page(), Pages: v.Pages(), Total: v.Filtered(),
					HasNext: v.HasNext(), HasPrev: v.HasPrev(), Items: items,
				})
			}
			rows := make([][]string, 0, len(items))
			for _, e := range items {
				when := e.FechaHora
				if t, ok := e.Time(); ok {
					when = t.Format("2006-01-02 15:04:05")
				}
				rows = append(rows, []string{string(e.ID), e.Usuario, e.Accion, e.Detalles, when})
			}
			if err := a.print.table([]string{"ID", "USUARIO", "ACCION", "DETALLES", "FECHA"}, rows); err != nil {
				return err
			}
			a.print.footer(v.Page(), v.Pages(), v.Filtered(), v.HasPrev(), v.HasNext())
			return nil
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "Texto a buscar en usuario, acción o detalles")
	list.Flags().StringVar(&filter.Usuario, "usuario", "", "Filtra por usuario")
	list.Flags().StringVar(&filter.Accion, "accion", "", "Filtra por acción")
	list.Flags().StringVar(&filter.Detalles, "detalles", "", "Filtra por detalles")
	list.Flags().IntVarP(&pageN, "page", "p", 1, "Página (desde 1)")

	var accion, detalles string
	logCmd := &cobra.Command{
		Use:   "log --accion <accion> --detalles <texto>",
		Short: "Registra una entrada de auditoría a nombre del usuario de la sesión",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			claims, _ := a.store.Claims()
			entry := api.NewAuditEntry{Usuario: claims.Subject, Accion: accion, Detalles: detalles}
			if err := a.api.CreateAudit(cmd.Context(), entry); err != nil {
				return err
			}
			if a.print.isJSON() {
				return a.print.json(entry)
			}
			a.print.line("registrado: %s %s", entry.Usuario, entry.Accion)
			return nil
		},
	}
	logCmd.Flags().StringVar(&accion, "accion", "", "Acción (texto libre)")
	logCmd.Flags().StringVar(&detalles, "detalles", "", "Detalles (texto libre)")
	_ = logCmd.MarkFlagRequired("accion")

	cmd.AddCommand(list, logCmd)
	return cmd
}
