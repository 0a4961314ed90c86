// Command proxyregd hosts a ledger with a deployed proxy manager and
// serves the Registry gRPC service.
//
// The manager's owner identity is fixed at boot. Every implementation in
// the build-time catalog is deployed onto the ledger at startup so proxies
// have code to point at; their addresses are logged.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"
	"google.golang.org/grpc"

	"xdao.co/proxyreg/addr"
	"xdao.co/proxyreg/grpcregistry"
	"xdao.co/proxyreg/ledger"
	"xdao.co/proxyreg/modules"
	"xdao.co/proxyreg/registry"

	_ "xdao.co/proxyreg/modules/counter"
)

type config struct {
	Listen      string `env:"PROXYREGD_LISTEN"`
	Owner       string `env:"PROXYREGD_OWNER"`
	ManagerSalt string `env:"PROXYREGD_MANAGER_SALT"`
	MaxMsgBytes int    `env:"PROXYREGD_MAX_MSG_BYTES"`
}

func main() {
	cfg := config{
		Listen:      "127.0.0.1:7788",
		ManagerSalt: "0x01",
	}
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fs := flag.NewFlagSet("proxyregd", flag.ExitOnError)
	listen := fs.String("listen", cfg.Listen, "listen address")
	owner := fs.String("owner", cfg.Owner, "manager owner address (hex)")
	managerSalt := fs.String("manager-salt", cfg.ManagerSalt, "manager deployment salt (hex)")
	listImpls := fs.Bool("list-implementations", false, "List catalog implementations and exit")
	_ = fs.Parse(os.Args[1:])

	if *listImpls {
		for _, impl := range modules.List() {
			if impl.Description == "" {
				fmt.Fprintf(os.Stdout, "%s\n", impl.Name)
				continue
			}
			fmt.Fprintf(os.Stdout, "%s\t%s\n", impl.Name, impl.Description)
		}
		return
	}

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	ownerAddr, err := addr.ParseAddress(*owner)
	if err != nil || ownerAddr.IsZero() {
		log.Fatal("owner address is required", zap.String("owner", *owner), zap.Error(err))
	}
	salt, err := addr.ParseSalt(*managerSalt)
	if err != nil {
		log.Fatal("invalid manager salt", zap.Error(err))
	}

	l := ledger.New()
	handle, err := registry.Deploy(l, ownerAddr, salt)
	if err != nil {
		log.Fatal("deploy manager", zap.Error(err))
	}
	log.Info("manager deployed",
		zap.String("address", handle.Address().String()),
		zap.String("owner", ownerAddr.String()),
	)

	for _, impl := range modules.List() {
		code, err := modules.Open(impl.Name)
		if err != nil {
			log.Fatal("open implementation", zap.String("name", impl.Name), zap.Error(err))
		}
		deployed, err := l.Deploy(ownerAddr, saltForImplementation(impl.Name), code)
		if err != nil {
			log.Fatal("deploy implementation", zap.String("name", impl.Name), zap.Error(err))
		}
		log.Info("implementation deployed",
			zap.String("name", impl.Name),
			zap.String("address", deployed.String()),
		)
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		log.Fatal("listen", zap.Error(err))
	}
	defer lis.Close()

	var serverOpts []grpc.ServerOption
	if cfg.MaxMsgBytes > 0 {
		serverOpts = append(serverOpts,
			grpc.MaxRecvMsgSize(cfg.MaxMsgBytes),
			grpc.MaxSendMsgSize(cfg.MaxMsgBytes),
		)
	}
	serverOpts = append(serverOpts, grpc.UnaryInterceptor(logInterceptor(log)))

	s := grpc.NewServer(serverOpts...)
	grpcregistry.RegisterRegistryServer(s, &grpcregistry.Server{Handle: handle})

	log.Info("proxyregd listening", zap.String("addr", lis.Addr().String()))
	if err := s.Serve(lis); err != nil {
		log.Fatal("serve", zap.Error(err))
	}
}

// saltForImplementation pins catalog deployments to name-derived salts so
// implementation addresses are stable across daemon restarts.
func saltForImplementation(name string) addr.Salt {
	return addr.Salt(sha3.Sum256([]byte("proxyregd-implementation\x00" + name)))
}

func logInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			log.Warn("rpc failed", zap.String("method", info.FullMethod), zap.Error(err))
		} else {
			log.Debug("rpc ok", zap.String("method", info.FullMethod))
		}
		return resp, err
	}
}
