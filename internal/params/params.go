package params

// DomainDecomposition holds the MPI rank grid.
type DomainDecomposition struct {
	NProcX int
	NProcY int
}

// FDOrder holds finite-difference accuracy settings.
type FDOrder struct {
	Order       int
	TimeOrder   int
	MaxRelError float64
}

// Grid describes the regular computational grid.
type Grid struct {
	NX int
	NY int
	DH float64
}

// TimeStepping holds simulation length and step.
type TimeStepping struct {
	Time float64
	DT   float64
}

// Source holds source excitation settings.
type Source struct {
	Shape            int
	SignalFile       string
	Type             int
	SrcRec           int
	File             string
	RunMultipleShots int
	PlaneWaveDepth   float64
	PlaneWaveAngle   float64
	TS               float64
}

// SignalOut controls source wavelet output.
type SignalOut struct {
	Enabled int
	File    string
	Format  int
}

// ModelInput points the simulator at the exported model files.
type ModelInput struct {
	ReadMod         int
	MFile           string
	WriteModelFiles int
}

// QApproximation holds viscoelastic attenuation settings.
type QApproximation struct {
	L    int
	FRef float64
	FL1  float64
}

// Boundary holds free-surface and absorbing boundary settings.
type Boundary struct {
	FreeSurf int
	Boundary int
	FW       int
	AbsType  int
	NPower   float64
	KMaxCPML float64
	VPPML    float64
	FPML     float64
	Damping  float64
}

// Snapshots controls wavefield snapshot output.
type Snapshots struct {
	Snap     int
	TSnap1   float64
	TSnap2   float64
	TSnapInc float64
	IDX      int
	IDY      int
	Format   int
	File     string
}

// Receiver holds receiver geometry and recording options.
type Receiver struct {
	Seismo        int
	ReadRec       int
	File          string
	RefRec        string
	Rec1          string
	Rec2          string
	NGeoph        int
	RecArray      int
	RecArrayDepth float64
	RecArrayDist  float64
	DRX           int
}

// Seismograms controls seismogram output.
type Seismograms struct {
	NDT    int
	Format int
	File   string
}

// Monitoring holds the simulator's own logging options.
type Monitoring struct {
	LogFile      string
	Log          int
	Verbosity    string
	TimestepInfo int
}

// Set is the complete SOFI2D parameter description. Rendered order matches
// the simulator's reference parameter file block for block.
type Set struct {
	Domain      DomainDecomposition
	FD          FDOrder
	Grid        Grid
	Time        TimeStepping
	WEQ         string
	Source      Source
	SignalOut   SignalOut
	Model       ModelInput
	Q           QApproximation
	Boundary    Boundary
	Snapshots   Snapshots
	Receiver    Receiver
	Seismograms Seismograms
	Monitoring  Monitoring
}

// Default returns a complete parameter set with the toolkit's defaults.
// Grid dimensions and spacing are mandatory and have no sane default.
func Default(nx, ny int, dh float64) Set {
	return Set{
		Domain: DomainDecomposition{NProcX: 1, NProcY: 1},
		FD:     FDOrder{Order: 4, TimeOrder: 2, MaxRelError: 0},
		Grid:   Grid{NX: nx, NY: ny, DH: dh},
		Time:   TimeStepping{Time: 2.0, DT: 0.001},
		WEQ:    "EL_ISO",
		Source: Source{
			Shape:            1,
			SignalFile:       "signal_mseis.tz",
			Type:             1,
			SrcRec:           1,
			File:             "./Geom/source.dat",
			RunMultipleShots: 1,
			PlaneWaveDepth:   2106.0,
			PlaneWaveAngle:   0.0,
			TS:               0.2,
		},
		SignalOut: SignalOut{Enabled: 1, File: "./OUTPUT/shot", Format: 3},
		Model:     ModelInput{ReadMod: 1, MFile: "./model/model", WriteModelFiles: 0},
		Q:         QApproximation{L: 0, FRef: 50.0, FL1: 50.0},
		Boundary: Boundary{
			FreeSurf: 1,
			Boundary: 0,
			FW:       40,
			AbsType:  1,
			NPower:   4.0,
			KMaxCPML: 1.0,
			VPPML:    4800.0,
			FPML:     30.0,
			Damping:  8.0,
		},
		Snapshots: Snapshots{
			Snap:     1,
			TSnap1:   0.0,
			TSnap2:   0.0,
			TSnapInc: 0.04,
			IDX:      1,
			IDY:      1,
			Format:   3,
			File:     "./OUTPUT/snap",
		},
		Receiver: Receiver{
			Seismo:        4,
			ReadRec:       1,
			File:          "./Geom/receiver.dat",
			RefRec:        "0.0 , 0.0",
			Rec1:          "100.0 , 15.0",
			Rec2:          "21850.0 , 1.0",
			NGeoph:        120,
			RecArray:      0,
			RecArrayDepth: 70.0,
			RecArrayDist:  40.0,
			DRX:           4,
		},
		Seismograms: Seismograms{NDT: 10, Format: 3, File: "./OUTPUT/seis"},
		Monitoring: Monitoring{
			LogFile:      "./log/sofi2d.log",
			Log:          0,
			Verbosity:    "INFO",
			TimestepInfo: 100,
		},
	}
}

// WaveEquations lists the WEQ values SOFI2D accepts.
var WaveEquations = []string{
	"AC_ISO", "AC_VTI", "AC_TTI",
	"VAC_ISO", "VAC_VTI", "VAC_TTI",
	"EL_ISO", "EL_VTI", "EL_TTI",
	"VEL_ISO", "VEL_VTI", "VEL_TTI",
}
