// Command proxyreg is the operator CLI for the proxy registry daemon.
//
// Identities are Ed25519 seeds in the local KMS-lite keystore; privileged
// subcommands sign their request with the selected identity and the daemon
// derives the caller address from the signature.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"xdao.co/proxyreg/addr"
	"xdao.co/proxyreg/grpcregistry"
	"xdao.co/proxyreg/keys"
	"xdao.co/proxyreg/modules"

	_ "xdao.co/proxyreg/modules/counter"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "implementations":
		return cmdImplementations(out)
	case "owner":
		return cmdOwner(args[1:], out, errOut)
	case "holder":
		return cmdHolder(args[1:], out, errOut)
	case "staged":
		return cmdStaged(args[1:], out, errOut)
	case "predict":
		return cmdPredict(args[1:], out, errOut)
	case "set-owner":
		return cmdSetOwner(args[1:], out, errOut)
	case "approve":
		return cmdApprove(args[1:], out, errOut, true)
	case "disapprove":
		return cmdApprove(args[1:], out, errOut, false)
	case "create":
		return cmdCreate(args[1:], out, errOut)
	case "update-shared":
		return cmdUpdateShared(args[1:], out, errOut)
	case "update-direct":
		return cmdUpdateDirect(args[1:], out, errOut)
	case "deploy-direct":
		return cmdDeployDirect(args[1:], out, errOut)
	case "deploy-shared":
		return cmdDeployShared(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "proxyreg: proxy registry operator CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  proxyreg key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  proxyreg key derive --from <name> --role <role> [--force]")
	fmt.Fprintln(w, "  proxyreg key list")
	fmt.Fprintln(w, "  proxyreg key export --name <name> [--role <role>]")
	fmt.Fprintln(w, "  proxyreg key address <signer flags>")
	fmt.Fprintln(w, "  proxyreg implementations")
	fmt.Fprintln(w, "  proxyreg owner --server <addr>")
	fmt.Fprintln(w, "  proxyreg holder --server <addr> --id <hex>")
	fmt.Fprintln(w, "  proxyreg staged --server <addr>")
	fmt.Fprintln(w, "  proxyreg predict --server <addr> --kind direct|shared --salt <hex>")
	fmt.Fprintln(w, "  proxyreg set-owner --server <addr> --new-owner <hex> <signer flags>")
	fmt.Fprintln(w, "  proxyreg approve --server <addr> --deployer <hex> <signer flags>")
	fmt.Fprintln(w, "  proxyreg disapprove --server <addr> --deployer <hex> <signer flags>")
	fmt.Fprintln(w, "  proxyreg create --server <addr> --id <hex> --impl <hex> <signer flags>")
	fmt.Fprintln(w, "  proxyreg update-shared --server <addr> --id <hex> --impl <hex> <signer flags>")
	fmt.Fprintln(w, "  proxyreg update-direct --server <addr> --proxy <hex> --impl <hex> <signer flags>")
	fmt.Fprintln(w, "  proxyreg deploy-direct --server <addr> --salt <hex> --impl <hex> <signer flags>")
	fmt.Fprintln(w, "  proxyreg deploy-shared --server <addr> --id <hex> --salt <hex> <signer flags>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Signer flags: --seed-hex <64hex> | --signer <name> [--signer-role <role>] | --key-file <path>")
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - keys live under ~/.xdao/proxyreg/keys/<name> (0600 seed files)")
	fmt.Fprintln(w, "  - an identifier doubles as the holder's deployment salt; choose them once")
}

type signerFlags struct {
	seedHex    string
	signerName string
	signerRole string
	keyFile    string
	keyDir     string
}

func (sf *signerFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&sf.seedHex, "seed-hex", "", "ed25519 seed (64 hex chars)")
	fs.StringVar(&sf.signerName, "signer", "", "keystore identity name")
	fs.StringVar(&sf.signerRole, "signer-role", "", "keystore role (owner, deployer, ...)")
	fs.StringVar(&sf.keyFile, "key-file", "", "path to a seed file")
	fs.StringVar(&sf.keyDir, "key-dir", "", "keystore directory (default ~/.xdao/proxyreg/keys)")
}

func (sf *signerFlags) load() (*grpcregistry.Ed25519Signer, error) {
	ks, err := keys.CreateKeyStore(sf.keyDir)
	if err != nil {
		return nil, err
	}
	seed, err := ks.LoadSeed(sf.seedHex, sf.signerName, sf.signerRole, sf.keyFile)
	if err != nil {
		return nil, err
	}
	return grpcregistry.NewEd25519Signer(seed)
}

func dial(server string, signer *grpcregistry.Ed25519Signer) (*grpcregistry.Client, error) {
	if server == "" {
		return nil, fmt.Errorf("--server is required")
	}
	opts := grpcregistry.DialOptions{Timeout: 5 * time.Second}
	if signer != nil {
		opts.Signer = signer
	}
	c, err := grpcregistry.Dial(server, opts)
	if err != nil {
		return nil, err
	}
	c.Timeout = 10 * time.Second
	return c, nil
}

func fail(errOut io.Writer, err error) int {
	fmt.Fprintln(errOut, err)
	return 1
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: proxyreg key <init|derive|list|export|address> ...")
		return 2
	}
	switch args[0] {
	case "init":
		fs := flag.NewFlagSet("key init", flag.ContinueOnError)
		fs.SetOutput(errOut)
		name := fs.String("name", "", "identity name")
		seedHex := fs.String("seed-hex", "", "ed25519 seed (64 hex chars); random if empty")
		force := fs.Bool("force", false, "overwrite an existing key")
		keyDir := fs.String("key-dir", "", "keystore directory")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		var seed []byte
		if *seedHex == "" {
			seed = make([]byte, 32)
			if _, err := rand.Read(seed); err != nil {
				return fail(errOut, err)
			}
		} else {
			var err error
			seed, err = keys.ParseSeedHex(*seedHex)
			if err != nil {
				return fail(errOut, err)
			}
		}
		ks, err := keys.CreateKeyStore(*keyDir)
		if err != nil {
			return fail(errOut, err)
		}
		identityKey, path, err := ks.InitializeRootKey(*name, seed, *force)
		if err != nil {
			return fail(errOut, err)
		}
		address, err := keys.AddressFromSeed(seed)
		if err != nil {
			return fail(errOut, err)
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n", identityKey, address, path)
		return 0
	case "derive":
		fs := flag.NewFlagSet("key derive", flag.ContinueOnError)
		fs.SetOutput(errOut)
		from := fs.String("from", "", "root identity name")
		role := fs.String("role", "", "role (owner, deployer, ...)")
		force := fs.Bool("force", false, "overwrite an existing key")
		keyDir := fs.String("key-dir", "", "keystore directory")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		ks, err := keys.CreateKeyStore(*keyDir)
		if err != nil {
			return fail(errOut, err)
		}
		identityKey, path, err := ks.DeriveKeyFromRole(*from, *role, *force)
		if err != nil {
			return fail(errOut, err)
		}
		seed, err := ks.LoadSeed("", *from, *role, "")
		if err != nil {
			return fail(errOut, err)
		}
		address, err := keys.AddressFromSeed(seed)
		if err != nil {
			return fail(errOut, err)
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n", identityKey, address, path)
		return 0
	case "list":
		fs := flag.NewFlagSet("key list", flag.ContinueOnError)
		fs.SetOutput(errOut)
		keyDir := fs.String("key-dir", "", "keystore directory")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		ks, err := keys.CreateKeyStore(*keyDir)
		if err != nil {
			return fail(errOut, err)
		}
		entries, err := ks.ListKeys()
		if err != nil {
			return fail(errOut, err)
		}
		for _, e := range entries {
			if len(e.Roles) == 0 {
				fmt.Fprintln(out, e.Identifier)
				continue
			}
			fmt.Fprintf(out, "%s\t%s\n", e.Identifier, strings.Join(e.Roles, ","))
		}
		return 0
	case "export":
		fs := flag.NewFlagSet("key export", flag.ContinueOnError)
		fs.SetOutput(errOut)
		name := fs.String("name", "", "identity name")
		role := fs.String("role", "", "role (optional)")
		keyDir := fs.String("key-dir", "", "keystore directory")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		ks, err := keys.CreateKeyStore(*keyDir)
		if err != nil {
			return fail(errOut, err)
		}
		identityKey, err := ks.ExportKey(*name, *role)
		if err != nil {
			return fail(errOut, err)
		}
		fmt.Fprintln(out, identityKey)
		return 0
	case "address":
		fs := flag.NewFlagSet("key address", flag.ContinueOnError)
		fs.SetOutput(errOut)
		var sf signerFlags
		sf.register(fs)
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		signer, err := sf.load()
		if err != nil {
			return fail(errOut, err)
		}
		fmt.Fprintln(out, signer.Address())
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n", args[0])
		return 2
	}
}

func cmdImplementations(out io.Writer) int {
	for _, impl := range modules.List() {
		if impl.Description == "" {
			fmt.Fprintln(out, impl.Name)
			continue
		}
		fmt.Fprintf(out, "%s\t%s\n", impl.Name, impl.Description)
	}
	return 0
}

func cmdOwner(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("owner", flag.ContinueOnError)
	fs.SetOutput(errOut)
	server := fs.String("server", "", "daemon address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	c, err := dial(*server, nil)
	if err != nil {
		return fail(errOut, err)
	}
	defer c.Close()
	owner, err := c.Owner()
	if err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintln(out, owner)
	return 0
}

func cmdHolder(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("holder", flag.ContinueOnError)
	fs.SetOutput(errOut)
	server := fs.String("server", "", "daemon address")
	idHex := fs.String("id", "", "implementation identifier (hex)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	id, err := addr.ParseSalt(*idHex)
	if err != nil {
		return fail(errOut, err)
	}
	c, err := dial(*server, nil)
	if err != nil {
		return fail(errOut, err)
	}
	defer c.Close()
	holder, ok, err := c.HolderFor(id)
	if err != nil {
		return fail(errOut, err)
	}
	if !ok {
		fmt.Fprintln(errOut, "no holder bound to", id)
		return 1
	}
	fmt.Fprintln(out, holder)
	return 0
}

func cmdStaged(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("staged", flag.ContinueOnError)
	fs.SetOutput(errOut)
	server := fs.String("server", "", "daemon address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	c, err := dial(*server, nil)
	if err != nil {
		return fail(errOut, err)
	}
	defer c.Close()
	impl, err := c.StagedImplementation()
	if err != nil {
		return fail(errOut, err)
	}
	holder, err := c.StagedHolder()
	if err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintf(out, "implementation\t%s\nholder\t%s\n", impl, holder)
	return 0
}

func cmdPredict(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	fs.SetOutput(errOut)
	server := fs.String("server", "", "daemon address")
	kind := fs.String("kind", "", "proxy kind: direct or shared")
	saltHex := fs.String("salt", "", "deployment salt (hex)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	salt, err := addr.ParseSalt(*saltHex)
	if err != nil {
		return fail(errOut, err)
	}
	c, err := dial(*server, nil)
	if err != nil {
		return fail(errOut, err)
	}
	defer c.Close()
	var predicted addr.Address
	switch *kind {
	case "direct":
		predicted, err = c.PredictDirectProxy(salt)
	case "shared":
		predicted, err = c.PredictSharedProxy(salt)
	default:
		return fail(errOut, fmt.Errorf("--kind must be direct or shared"))
	}
	if err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintln(out, predicted)
	return 0
}

func cmdSetOwner(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("set-owner", flag.ContinueOnError)
	fs.SetOutput(errOut)
	server := fs.String("server", "", "daemon address")
	newOwner := fs.String("new-owner", "", "next owner address (hex)")
	var sf signerFlags
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	next, err := addr.ParseAddress(*newOwner)
	if err != nil {
		return fail(errOut, err)
	}
	signer, err := sf.load()
	if err != nil {
		return fail(errOut, err)
	}
	c, err := dial(*server, signer)
	if err != nil {
		return fail(errOut, err)
	}
	defer c.Close()
	if err := c.SetOwner(next); err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintln(out, "owner set to", next)
	return 0
}

func cmdApprove(args []string, out io.Writer, errOut io.Writer, approve bool) int {
	name := "approve"
	if !approve {
		name = "disapprove"
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(errOut)
	server := fs.String("server", "", "daemon address")
	deployerHex := fs.String("deployer", "", "deployer address (hex)")
	var sf signerFlags
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	deployer, err := addr.ParseAddress(*deployerHex)
	if err != nil {
		return fail(errOut, err)
	}
	signer, err := sf.load()
	if err != nil {
		return fail(errOut, err)
	}
	c, err := dial(*server, signer)
	if err != nil {
		return fail(errOut, err)
	}
	defer c.Close()
	if approve {
		err = c.ApproveDeployer(deployer)
	} else {
		err = c.DisapproveDeployer(deployer)
	}
	if err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintf(out, "%sd %s\n", name, deployer)
	return 0
}

func cmdCreate(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(errOut)
	server := fs.String("server", "", "daemon address")
	idHex := fs.String("id", "", "implementation identifier (hex)")
	implHex := fs.String("impl", "", "initial implementation address (hex)")
	var sf signerFlags
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	id, err := addr.ParseSalt(*idHex)
	if err != nil {
		return fail(errOut, err)
	}
	impl, err := addr.ParseAddress(*implHex)
	if err != nil {
		return fail(errOut, err)
	}
	signer, err := sf.load()
	if err != nil {
		return fail(errOut, err)
	}
	c, err := dial(*server, signer)
	if err != nil {
		return fail(errOut, err)
	}
	defer c.Close()
	holder, err := c.CreateSharedRelationship(id, impl)
	if err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintln(out, holder)
	return 0
}

func cmdUpdateShared(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("update-shared", flag.ContinueOnError)
	fs.SetOutput(errOut)
	server := fs.String("server", "", "daemon address")
	idHex := fs.String("id", "", "implementation identifier (hex)")
	implHex := fs.String("impl", "", "new implementation address (hex)")
	var sf signerFlags
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	id, err := addr.ParseSalt(*idHex)
	if err != nil {
		return fail(errOut, err)
	}
	impl, err := addr.ParseAddress(*implHex)
	if err != nil {
		return fail(errOut, err)
	}
	signer, err := sf.load()
	if err != nil {
		return fail(errOut, err)
	}
	c, err := dial(*server, signer)
	if err != nil {
		return fail(errOut, err)
	}
	defer c.Close()
	if err := c.UpdateSharedImplementation(id, impl); err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintf(out, "%s -> %s\n", id, impl)
	return 0
}

func cmdUpdateDirect(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("update-direct", flag.ContinueOnError)
	fs.SetOutput(errOut)
	server := fs.String("server", "", "daemon address")
	proxyHex := fs.String("proxy", "", "direct proxy address (hex)")
	implHex := fs.String("impl", "", "new implementation address (hex)")
	var sf signerFlags
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	proxyAddr, err := addr.ParseAddress(*proxyHex)
	if err != nil {
		return fail(errOut, err)
	}
	impl, err := addr.ParseAddress(*implHex)
	if err != nil {
		return fail(errOut, err)
	}
	signer, err := sf.load()
	if err != nil {
		return fail(errOut, err)
	}
	c, err := dial(*server, signer)
	if err != nil {
		return fail(errOut, err)
	}
	defer c.Close()
	if err := c.UpdateDirectImplementation(proxyAddr, impl); err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintf(out, "%s -> %s\n", proxyAddr, impl)
	return 0
}

func cmdDeployDirect(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("deploy-direct", flag.ContinueOnError)
	fs.SetOutput(errOut)
	server := fs.String("server", "", "daemon address")
	saltHex := fs.String("salt", "", "deployment salt (hex)")
	implHex := fs.String("impl", "", "initial implementation address (hex)")
	var sf signerFlags
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	salt, err := addr.ParseSalt(*saltHex)
	if err != nil {
		return fail(errOut, err)
	}
	impl, err := addr.ParseAddress(*implHex)
	if err != nil {
		return fail(errOut, err)
	}
	signer, err := sf.load()
	if err != nil {
		return fail(errOut, err)
	}
	c, err := dial(*server, signer)
	if err != nil {
		return fail(errOut, err)
	}
	defer c.Close()
	deployed, err := c.DeployDirectProxy(salt, impl)
	if err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintln(out, deployed)
	return 0
}

func cmdDeployShared(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("deploy-shared", flag.ContinueOnError)
	fs.SetOutput(errOut)
	server := fs.String("server", "", "daemon address")
	idHex := fs.String("id", "", "implementation identifier (hex)")
	saltHex := fs.String("salt", "", "deployment salt (hex)")
	var sf signerFlags
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	id, err := addr.ParseSalt(*idHex)
	if err != nil {
		return fail(errOut, err)
	}
	salt, err := addr.ParseSalt(*saltHex)
	if err != nil {
		return fail(errOut, err)
	}
	signer, err := sf.load()
	if err != nil {
		return fail(errOut, err)
	}
	c, err := dial(*server, signer)
	if err != nil {
		return fail(errOut, err)
	}
	defer c.Close()
	deployed, err := c.DeploySharedProxy(id, salt)
	if err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintln(out, deployed)
	return 0
}
