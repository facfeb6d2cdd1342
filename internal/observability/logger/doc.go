// Package logger provee el logger Zap del cliente severus.
//
// # Decisiones
//
//   - Singleton: una sola instancia global inicializada con Init() desde cmd/severus.
//   - Scoping por contexto: cada comando puede inyectar un logger con campos
//     propios (comando, municipio, versión) via ToContext/From.
//   - Entornos: "dev" usa consola con colores, "prod" usa JSON.
//   - Salida: siempre stderr; stdout queda reservado para la salida del comando.
//
// # Uso
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
//	log := logger.From(ctx)
//	log.Info("documento guardado", logger.Municipio(m), logger.Version(v))
package logger
