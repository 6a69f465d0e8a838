package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/sgvandijk/vroom/internal/adapters/routing"
	"github.com/sgvandijk/vroom/internal/api/dto"
	"github.com/sgvandijk/vroom/internal/config"
	"github.com/sgvandijk/vroom/internal/domain"
	"github.com/sgvandijk/vroom/internal/services"
	"github.com/sgvandijk/vroom/internal/validation"
)

// serverFlags collects repeated -a profile:host:port arguments.
type serverFlags map[string]routing.Server

func (s serverFlags) String() string { return fmt.Sprintf("%v", map[string]routing.Server(s)) }

func (s serverFlags) Set(v string) error {
	parts := strings.Split(v, ":")
	if len(parts) != 3 {
		return fmt.Errorf("expected profile:host:port, got %q", v)
	}
	s[parts[0]] = routing.Server{Host: parts[1], Port: parts[2]}
	return nil
}

func main() {
	if err := godotenv.Load(); err == nil {
		logrus.Debug("loaded .env")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	inputFile := flag.String("i", "", "read problem from this file instead of stdin")
	outputFile := flag.String("o", "", "write solution to this file instead of stdout")
	threads := flag.Int("t", cfg.Threads, "number of threads")
	exploration := flag.Int("x", cfg.Exploration, "exploration level (0 disables route improvement)")
	geometry := flag.Bool("g", cfg.Geometry, "add route geometry and distance to the output")
	check := flag.Bool("c", false, "check the pre-planned routes instead of solving")
	router := flag.String("r", cfg.Router, "routing engine: osrm, libosrm, ors or valhalla")
	servers := serverFlags{}
	flag.Var(servers, "a", "routing server as profile:host:port (repeatable)")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg.Router = *router
	cfg.Geometry = *geometry
	for profile, s := range servers {
		if cfg.Servers == nil {
			cfg.Servers = map[string]routing.Server{}
		}
		cfg.Servers[profile] = s
	}

	sol, err := run(cfg, *inputFile, *check, *exploration, *threads)
	if err != nil {
		report(dto.FromError(err), *outputFile)
		os.Exit(dto.ErrorCode(err))
	}

	report(dto.FromDomain(sol), *outputFile)
}

func run(cfg config.Config, inputFile string, check bool, exploration, threads int) (domain.Solution, error) {
	var reader io.Reader = os.Stdin
	if inputFile != "" {
		f, err := os.Open(inputFile)
		if err != nil {
			return domain.Solution{}, domain.NewInputError("%v", err)
		}
		defer f.Close()
		reader = f
	}

	var problem dto.Problem
	if err := json.NewDecoder(reader).Decode(&problem); err != nil {
		return domain.Solution{}, domain.NewInputError("Invalid json: %v", err)
	}

	in := services.New(services.Options{
		AmountSize: cfg.AmountSize,
		Geometry:   cfg.Geometry,
		NewRouter:  cfg.NewRouterFunc(),
		Validator:  validation.New(),
	})

	if err := problem.Apply(in); err != nil {
		return domain.Solution{}, err
	}

	if check {
		return in.Check(context.Background(), threads)
	}
	return in.Solve(context.Background(), exploration, threads)
}

func report(sol dto.Solution, outputFile string) {
	var writer io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			logrus.Fatal(err)
		}
		defer f.Close()
		writer = f
	}

	enc := json.NewEncoder(writer)
	if err := enc.Encode(sol); err != nil {
		logrus.Fatal(err)
	}
}
