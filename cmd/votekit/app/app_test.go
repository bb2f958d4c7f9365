package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ballotbox/votekit/internal/cmd/cmdtest"
	"github.com/ballotbox/votekit/pkg/abi"
	"github.com/ballotbox/votekit/pkg/constants"
	"github.com/ballotbox/votekit/pkg/contract"
	"github.com/ballotbox/votekit/pkg/contract/contracttest"
	"github.com/ballotbox/votekit/pkg/logging"
)

// newTestApp builds an App on the in-memory project of env.
func newTestApp(t *testing.T, env *cmdtest.Env) *App {
	t.Helper()
	t.Setenv("LOG_OUTPUT", "discard")

	a, err := New("1.2.3", "abc123", "2026-01-01", "test",
		WithStore(env.Store),
		WithLogger(logging.NewNopLogger()),
		WithDialer(func(context.Context, string) (*contract.Node, error) {
			return contract.NewNode(env.Chain, env.Chain), nil
		}),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	// cmdtest seeds the default locations
	a.config.ArtifactPath = constants.DefaultArtifactPath
	a.config.DeploymentPath = constants.DefaultDeploymentPath
	a.config.ConsumerABIPath = constants.DefaultConsumerABIPath
	return a
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()
	root := a.createRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// TestNewRejectsNilOptions verifies option validation.
func TestNewRejectsNilOptions(t *testing.T) {
	if _, err := New("dev", "", "", "", WithStore(nil)); err == nil {
		t.Error("New() accepted a nil store")
	}
	if _, err := New("dev", "", "", "", WithDialer(nil)); err == nil {
		t.Error("New() accepted a nil dialer")
	}
	if _, err := New("dev", "", "", "", WithConfig(nil)); err == nil {
		t.Error("New() accepted a nil config")
	}
}

// TestAppAccessors verifies the appcontext.Interface surface.
func TestAppAccessors(t *testing.T) {
	env := cmdtest.New(t)
	a := newTestApp(t, env)

	if a.Version() != "1.2.3" || a.Commit() != "abc123" || a.Date() != "2026-01-01" || a.BuiltBy() != "test" {
		t.Error("version information not kept")
	}
	if a.Store() != env.Store {
		t.Error("Store() did not return the configured store")
	}
	if got := a.Network().ChainID; got != a.config.ChainID {
		t.Errorf("Network().ChainID = %d, want %d", got, a.config.ChainID)
	}
	if got := a.Paths().Artifact; got != a.config.ArtifactPath {
		t.Errorf("Paths().Artifact = %s, want %s", got, a.config.ArtifactPath)
	}

	a.config.Format = "yaml"
	if a.OutputFormat() != "yaml" {
		t.Errorf("OutputFormat() = %s, want yaml", a.OutputFormat())
	}
}

// TestVersionCommand verifies the version subcommand.
func TestVersionCommand(t *testing.T) {
	a := newTestApp(t, cmdtest.New(t))

	out, err := run(t, a, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out != "votekit 1.2.3\n" {
		t.Errorf("output = %q, want %q", out, "votekit 1.2.3\n")
	}

	out, err = run(t, a, "version", "--verbose")
	if err != nil {
		t.Fatalf("version --verbose failed: %v", err)
	}
	if !strings.Contains(out, "commit:   abc123") {
		t.Errorf("verbose output missing commit: %q", out)
	}
}

// TestRegisteredCommands verifies every command is wired to the root.
func TestRegisteredCommands(t *testing.T) {
	root := newTestApp(t, cmdtest.New(t)).createRootCommand()

	for _, name := range []string{
		"verify-abi", "extract", "deploy", "update-address",
		"candidates", "diagnose", "status", "accounts", "version",
	} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %s not registered", name)
		}
	}
}

// TestVerifyThroughRoot runs verify-abi end to end with the configured paths.
func TestVerifyThroughRoot(t *testing.T) {
	env := cmdtest.New(t)
	a := newTestApp(t, env)

	consumer := abi.New(abi.Function("vote", []abi.Param{{Name: "candidate", Type: "string"}}, nil))
	data, err := consumer.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if err := env.Store.Write(a.config.ConsumerABIPath, data); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, a, "verify-abi", "--format", "table")
	if err != nil {
		t.Fatalf("verify-abi failed: %v", err)
	}
	if !strings.Contains(out, "Missing in consumer (8)") {
		t.Errorf("output missing drift summary:\n%s", out)
	}

	updated, err := abi.Load(env.Store, "consumer", a.config.ConsumerABIPath)
	if err != nil {
		t.Fatal(err)
	}
	if !updated.Equal(env.Artifact.ABI) {
		t.Error("consumer ABI not replaced with the artifact ABI")
	}
}

// TestDeployThroughRoot verifies the rpc-url flag and the deployment record.
func TestDeployThroughRoot(t *testing.T) {
	env := cmdtest.New(t)
	a := newTestApp(t, env)

	if _, err := run(t, a, "deploy", "--rpc-url", "http://flag:8545", "-o", "table"); err != nil {
		t.Fatalf("deploy failed: %v", err)
	}
	if a.config.RPCURL != "http://flag:8545" {
		t.Errorf("RPCURL = %s, want http://flag:8545", a.config.RPCURL)
	}
	if !env.Store.Exists(a.config.DeploymentPath) {
		t.Error("deployment record not written")
	}
	if env.Chain.Owner != contracttest.OwnerAccount {
		t.Errorf("owner = %s, want %s", env.Chain.Owner.Hex(), contracttest.OwnerAccount.Hex())
	}
}

// TestUnknownFormat verifies that a bad --format surfaces as an error.
func TestUnknownFormat(t *testing.T) {
	env := cmdtest.New(t).Deployed(t, "Alice")
	a := newTestApp(t, env)

	if _, err := run(t, a, "status", "--format", "xml"); err == nil {
		t.Error("status accepted --format xml")
	}
	if len(env.Chain.Sent) != 0 {
		t.Error("status sent a transaction")
	}
}
