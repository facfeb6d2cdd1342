package main

import (
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/severus/internal/api"
	"github.com/dropDatabas3/severus/internal/listview"
)

func newMunicipiosCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "municipios",
		Aliases: []string{"mun"},
		Short:   "Municipios (datos de referencia)",
	}

	var search string
	var pageN int
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista municipios con búsqueda por nombre o código (sin tildes)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if _, err := a.muni.All(cmd.Context()); err != nil {
				return err
			}
			v := listview.Municipios(a.cfg.List.PageSize)
			v.SetItems(a.muni.FilterTable(search))
			v.SetPage(pageN)
			return printMunicipios(a, v)
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "Texto a buscar en nombre o código")
	list.Flags().IntVarP(&pageN, "page", "p", 1, "Página (desde 1)")

	find := &cobra.Command{
		Use:   "find <nombre>",
		Short: "Busca municipios por nombre (como el selector del formulario de alta)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if _, err := a.muni.All(cmd.Context()); err != nil {
				return err
			}
			found := a.muni.Filter(args[0])
			if a.print.isJSON() {
				return a.print.json(found)
			}
			return a.print.table([]string{"CODIGO", "NOMBRE"}, municipioRows(found))
		},
	}

	cmd.AddCommand(list, find)
	return cmd
}

func printMunicipios(a *app, v *listview.View[api.Municipio]) error {
	items := v.PageItems()
	if a.print.isJSON() {
		return a.print.json(page[api.Municipio]{
			Page: v.Page(), Pages: v.Pages(), Total: v.Filtered(),
			HasNext: v.HasNext(), HasPrev: v.HasPrev(), Items: items,
		})
	}
	if err := a.print.table([]string{"CODIGO", "NOMBRE"}, municipioRows(items)); err != nil {
		return err
	}
	a.print.footer(v.Page(), v.Pages(), v.Filtered(), v.HasPrev(), v.HasNext())
	return nil
}

func municipioRows(ms []api.Municipio) [][]string {
	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, []string{m.Codigo, m.Nombre})
	}
	return rows
}
