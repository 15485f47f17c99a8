package vocab

// Export category names fixed by the corpus-site import contract. These are
// shared identifiers across the extraction, normalization, and consumption
// stages; renaming one here without touching the other stages is exactly the
// drift the consistency checker exists to catch.
const (
	CategoryTechniques          = "microscopy_techniques"
	CategoryBrands              = "microscope_brands"
	CategoryModels              = "microscope_models"
	CategoryAnalysisSoftware    = "image_analysis_software"
	CategoryAcquisitionSoftware = "image_acquisition_software"
	CategoryFluorophores        = "fluorophores"
	CategoryOrganisms           = "organisms"
	CategoryCellLines           = "cell_lines"
	CategorySamplePreparation   = "sample_preparation"
	CategoryInstitutions        = "institutions"
	CategoryProtocols           = "protocols"
	CategoryRepositories        = "repositories"
	CategoryRRIDs               = "rrids"
	CategoryRORs                = "rors"

	// Legacy category that split into analysis and acquisition software.
	CategoryLegacySoftware = "mh_software"
)

// DefaultTable returns the built-in vocabulary for the microscopy corpus.
func DefaultTable() *Table {
	t, err := NewTable(defaultSpecs())
	if err != nil {
		// The shipped vocabulary is validated by tests; a failure here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return t
}

// DefaultRouter returns the built-in field-routing policy.
//
// institutions and rors route to affiliations only: institution names occur
// all over abstracts and methods ("the Stanford protocol", comparisons to
// prior work) and tagging those produced garbage before the policy existed.
func DefaultRouter() *Router {
	r, err := NewRouter(map[string]RoutingRule{
		CategoryTechniques:          {Fields: []string{FieldTitle, FieldAbstract, FieldMethods, FieldFullText}},
		CategoryBrands:              {Fields: []string{FieldTitle, FieldAbstract, FieldMethods, FieldFullText}},
		CategoryModels:              {Fields: []string{FieldTitle, FieldAbstract, FieldMethods, FieldFullText}},
		CategoryAnalysisSoftware:    {Fields: []string{FieldAbstract, FieldMethods, FieldFullText}},
		CategoryAcquisitionSoftware: {Fields: []string{FieldAbstract, FieldMethods, FieldFullText}},
		CategoryFluorophores:        {Fields: []string{FieldAbstract, FieldMethods, FieldFullText}},
		CategoryOrganisms:           {Fields: []string{FieldTitle, FieldAbstract, FieldMethods, FieldFullText}},
		CategoryCellLines:           {Fields: []string{FieldAbstract, FieldMethods, FieldFullText}},
		CategorySamplePreparation:   {Fields: []string{FieldAbstract, FieldMethods, FieldFullText}},
		CategoryInstitutions:        {Fields: []string{FieldAffiliations}},
		CategoryProtocols:           {Fields: []string{FieldAbstract, FieldMethods, FieldFullText}},
		CategoryRepositories:        {Fields: []string{FieldAbstract, FieldMethods, FieldFullText}},
		CategoryRRIDs:               {Fields: []string{FieldAbstract, FieldMethods, FieldFullText}},
		CategoryRORs:                {Fields: []string{FieldAffiliations}},
		CategoryLegacySoftware:      {DeprecatedFor: []string{CategoryAnalysisSoftware, CategoryAcquisitionSoftware}},
	})
	if err != nil {
		panic(err)
	}
	return r
}

func defaultSpecs() map[string]CategorySpec {
	return map[string]CategorySpec{
		CategoryTechniques: {
			Hierarchical: true,
			// SPIM and light sheet were maintained as separate terms for years;
			// the site now displays a single canonical.
			Merges: map[string]string{"Selective Plane Illumination Microscopy": "Light Sheet Microscopy"},
			Entries: []Entry{
				{Canonical: "Confocal Microscopy", Aliases: []string{"confocal", "confocal laser scanning microscopy", "CLSM", "laser scanning confocal"}},
				{Canonical: "Spinning Disk Confocal", Aliases: []string{"spinning disk", "spinning disc confocal"}, Parent: "Confocal Microscopy"},
				{Canonical: "Two-Photon Microscopy", Aliases: []string{"two photon", "2-photon", "multiphoton microscopy", "2P imaging"}},
				{Canonical: "Light Sheet Microscopy", Aliases: []string{"light sheet", "light-sheet fluorescence microscopy", "LSFM", "lattice light sheet"}},
				{Canonical: "Selective Plane Illumination Microscopy", Aliases: []string{"SPIM"}},
				{Canonical: "STED Microscopy", Aliases: []string{"STED", "stimulated emission depletion"}},
				{Canonical: "STORM", Aliases: []string{"stochastic optical reconstruction microscopy", "dSTORM"}},
				{Canonical: "PALM", Aliases: []string{"photoactivated localization microscopy"}},
				{Canonical: "Structured Illumination Microscopy", Aliases: []string{"SIM imaging", "3D-SIM", "lattice SIM"}},
				{Canonical: "Single Molecule Localization Microscopy", Aliases: []string{"SMLM", "single-molecule localization"}},
				{Canonical: "TIRF Microscopy", Aliases: []string{"TIRF", "total internal reflection fluorescence"}},
				{Canonical: "FRAP", Aliases: []string{"fluorescence recovery after photobleaching"}},
				{Canonical: "FRET", Aliases: []string{"Förster resonance energy transfer", "fluorescence resonance energy transfer"}},
				{Canonical: "FLIM", Aliases: []string{"fluorescence lifetime imaging"}},
				{Canonical: "Atomic Force Microscopy", Aliases: []string{"AFM", "atomic-force microscopy"}},
				{Canonical: "Transmission Electron Microscopy", Aliases: []string{"TEM"}},
				{Canonical: "Scanning Electron Microscopy", Aliases: []string{"SEM"}},
				{Canonical: "Cryo-Electron Microscopy", Aliases: []string{"cryo-EM", "cryoEM", "cryo electron microscopy"}},
				{Canonical: "Cryo-Electron Tomography", Aliases: []string{"cryo-ET", "cryoET", "cryo electron tomography"}, Parent: "Cryo-Electron Microscopy"},
				{Canonical: "Correlative Light and Electron Microscopy", Aliases: []string{"CLEM"}},
				{Canonical: "Expansion Microscopy", Aliases: []string{"ExM", "protein-retention expansion microscopy", "proExM"}},
				{Canonical: "Phase Contrast Microscopy", Aliases: []string{"phase contrast", "phase-contrast imaging"}},
				{Canonical: "Differential Interference Contrast", Aliases: []string{"DIC microscopy", "Nomarski"}},
				{Canonical: "Widefield Fluorescence Microscopy", Aliases: []string{"widefield fluorescence", "wide-field fluorescence", "epifluorescence"}},
				{Canonical: "Super-Resolution Microscopy", Aliases: []string{"super resolution imaging", "super-resolution imaging", "nanoscopy"}},
				{Canonical: "Live-Cell Imaging", Aliases: []string{"live cell imaging", "live imaging", "time-lapse imaging"}},
			},
		},
		CategoryBrands: {
			Hierarchical: true,
			Entries: []Entry{
				{Canonical: "Zeiss", Aliases: []string{"Carl Zeiss", "ZEISS Microscopy"}},
				{Canonical: "Leica", Aliases: []string{"Leica Microsystems"}},
				{Canonical: "Nikon", Aliases: []string{"Nikon Instruments"}},
				{Canonical: "Olympus", Aliases: []string{"Olympus Corporation"}},
				{Canonical: "Evident", Aliases: []string{"Evident Scientific"}},
				{Canonical: "Bruker", Aliases: []string{"Bruker Nano"}},
				{Canonical: "JEOL", Aliases: []string{}},
				{Canonical: "Thermo Fisher Scientific", Aliases: []string{"Thermo Fisher", "ThermoFisher", "FEI"}},
				{Canonical: "Hitachi", Aliases: []string{"Hitachi High-Tech"}},
				{Canonical: "Andor", Aliases: []string{"Andor Technology"}},
				{Canonical: "Yokogawa", Aliases: []string{}},
				{Canonical: "PerkinElmer", Aliases: []string{"Perkin Elmer", "Perkin-Elmer"}},
				{Canonical: "Abberior", Aliases: []string{"Abberior Instruments"}},
				{Canonical: "Miltenyi Biotec", Aliases: []string{"Miltenyi"}},
			},
		},
		CategoryModels: {
			Entries: []Entry{
				// Declare the specific models; bare family names like "LSM" stay
				// out so the longest-match rule always lands on a real model.
				{Canonical: "LSM 710", Aliases: []string{"LSM710", "Zeiss LSM 710"}},
				{Canonical: "LSM 780", Aliases: []string{"LSM780", "Zeiss LSM 780"}},
				{Canonical: "LSM 880", Aliases: []string{"LSM880", "Zeiss LSM 880"}},
				{Canonical: "LSM 980", Aliases: []string{"LSM980", "Zeiss LSM 980"}},
				{Canonical: "Elyra 7", Aliases: []string{"Zeiss Elyra 7", "Elyra7"}},
				{Canonical: "Airyscan", Aliases: []string{"Airyscan 2"}},
				{Canonical: "SP5", Aliases: []string{"TCS SP5", "Leica SP5"}},
				{Canonical: "SP8", Aliases: []string{"TCS SP8", "Leica SP8"}},
				{Canonical: "Stellaris 8", Aliases: []string{"Leica Stellaris 8", "STELLARIS 8"}},
				{Canonical: "A1R", Aliases: []string{"Nikon A1R", "A1R HD25"}},
				{Canonical: "AX R", Aliases: []string{"Nikon AX R"}},
				{Canonical: "Eclipse Ti2", Aliases: []string{"Nikon Ti2", "Ti2-E"}},
				{Canonical: "FV1000", Aliases: []string{"FluoView FV1000", "Olympus FV1000"}},
				{Canonical: "FV3000", Aliases: []string{"FluoView FV3000", "Olympus FV3000"}},
				{Canonical: "Dragonfly 200", Aliases: []string{"Andor Dragonfly 200", "Dragonfly200"}},
				{Canonical: "CSU-W1", Aliases: []string{"Yokogawa CSU-W1", "CSU W1"}},
				{Canonical: "Titan Krios", Aliases: []string{"Krios G4", "Krios G3i"}},
				{Canonical: "Talos Arctica", Aliases: []string{"Arctica"}},
				{Canonical: "Glacios", Aliases: []string{}},
			},
		},
		CategoryAnalysisSoftware: {
			Entries: []Entry{
				{Canonical: "ImageJ", Aliases: []string{"Image J"}},
				{Canonical: "Fiji", Aliases: []string{"Fiji is just ImageJ", "Fiji/ImageJ"}},
				{Canonical: "CellProfiler", Aliases: []string{"Cell Profiler"}},
				{Canonical: "Imaris", Aliases: []string{"Bitplane Imaris"}},
				{Canonical: "Huygens", Aliases: []string{"Huygens Professional", "SVI Huygens"}},
				{Canonical: "QuPath", Aliases: []string{}},
				{Canonical: "napari", Aliases: []string{}},
				{Canonical: "Icy", Aliases: []string{"Icy platform"}},
				{Canonical: "ilastik", Aliases: []string{"Ilastik"}},
				{Canonical: "Arivis", Aliases: []string{"arivis Vision4D", "Vision4D"}},
				{Canonical: "MATLAB", Aliases: []string{"Matlab"}},
				{Canonical: "CellPose", Aliases: []string{"Cellpose"}},
				{Canonical: "StarDist", Aliases: []string{"Stardist"}},
				{Canonical: "RELION", Aliases: []string{"Relion"}},
				{Canonical: "cryoSPARC", Aliases: []string{"CryoSPARC"}},
				{Canonical: "IMOD", Aliases: []string{}},
			},
		},
		CategoryAcquisitionSoftware: {
			Entries: []Entry{
				{Canonical: "ZEN", Aliases: []string{"ZEN Blue", "ZEN Black", "Zeiss ZEN"}},
				{Canonical: "LAS X", Aliases: []string{"LASX", "Leica Application Suite X"}},
				{Canonical: "NIS-Elements", Aliases: []string{"NIS Elements", "Nikon NIS-Elements"}},
				{Canonical: "MetaMorph", Aliases: []string{"Metamorph"}},
				{Canonical: "Micro-Manager", Aliases: []string{"MicroManager", "μManager"}},
				{Canonical: "cellSens", Aliases: []string{"CellSens"}},
				{Canonical: "FluoView", Aliases: []string{"Olympus FluoView software"}},
				{Canonical: "SerialEM", Aliases: []string{"Serial EM"}},
				{Canonical: "EPU", Aliases: []string{"Thermo Fisher EPU"}},
				{Canonical: "SlideBook", Aliases: []string{"Slidebook"}},
			},
		},
		CategoryFluorophores: {
			Entries: []Entry{
				{Canonical: "GFP", Aliases: []string{"green fluorescent protein", "EGFP", "eGFP"}},
				{Canonical: "YFP", Aliases: []string{"yellow fluorescent protein", "EYFP"}},
				{Canonical: "CFP", Aliases: []string{"cyan fluorescent protein", "ECFP"}},
				{Canonical: "RFP", Aliases: []string{"red fluorescent protein"}},
				{Canonical: "mCherry", Aliases: []string{"m-Cherry"}},
				{Canonical: "tdTomato", Aliases: []string{"td-Tomato", "tdtomato"}},
				{Canonical: "mScarlet", Aliases: []string{"mScarlet-I"}},
				{Canonical: "mNeonGreen", Aliases: []string{"mNeon Green"}},
				{Canonical: "DAPI", Aliases: []string{"4',6-diamidino-2-phenylindole"}},
				{Canonical: "Hoechst 33342", Aliases: []string{"Hoechst33342", "Hoechst"}},
				{Canonical: "Alexa Fluor 488", Aliases: []string{"AlexaFluor 488", "Alexa 488", "AF488"}},
				{Canonical: "Alexa Fluor 555", Aliases: []string{"AlexaFluor 555", "Alexa 555", "AF555"}},
				{Canonical: "Alexa Fluor 594", Aliases: []string{"AlexaFluor 594", "Alexa 594", "AF594"}},
				{Canonical: "Alexa Fluor 647", Aliases: []string{"AlexaFluor 647", "Alexa 647", "AF647"}},
				{Canonical: "FITC", Aliases: []string{"fluorescein isothiocyanate"}},
				{Canonical: "TRITC", Aliases: []string{}},
				{Canonical: "Cy3", Aliases: []string{"cyanine 3"}},
				{Canonical: "Cy5", Aliases: []string{"cyanine 5"}},
				{Canonical: "JF549", Aliases: []string{"Janelia Fluor 549"}},
				{Canonical: "JF646", Aliases: []string{"Janelia Fluor 646"}},
				{Canonical: "SiR-tubulin", Aliases: []string{"SiR tubulin"}},
				{Canonical: "Phalloidin-Alexa", Aliases: []string{"phalloidin conjugate"}},
			},
		},
		CategoryOrganisms: {
			Entries: []Entry{
				{Canonical: "Homo sapiens", Aliases: []string{"human", "humans"}},
				{Canonical: "Mus musculus", Aliases: []string{"mouse", "mice", "murine"}},
				{Canonical: "Rattus norvegicus", Aliases: []string{"rat", "rats"}},
				{Canonical: "Danio rerio", Aliases: []string{"zebrafish"}},
				{Canonical: "Drosophila melanogaster", Aliases: []string{"Drosophila", "fruit fly"}},
				{Canonical: "Caenorhabditis elegans", Aliases: []string{"C. elegans", "nematode"}},
				{Canonical: "Saccharomyces cerevisiae", Aliases: []string{"S. cerevisiae", "budding yeast"}},
				{Canonical: "Schizosaccharomyces pombe", Aliases: []string{"S. pombe", "fission yeast"}},
				{Canonical: "Escherichia coli", Aliases: []string{"E. coli"}},
				{Canonical: "Arabidopsis thaliana", Aliases: []string{"Arabidopsis"}},
				{Canonical: "Xenopus laevis", Aliases: []string{"Xenopus"}},
				{Canonical: "Dictyostelium discoideum", Aliases: []string{"Dictyostelium"}},
			},
		},
		CategoryCellLines: {
			Entries: []Entry{
				{Canonical: "HeLa", Aliases: []string{"HeLa cells"}},
				{Canonical: "HEK293", Aliases: []string{"HEK 293", "HEK-293"}},
				{Canonical: "HEK293T", Aliases: []string{"HEK 293T", "293T"}},
				{Canonical: "U2OS", Aliases: []string{"U-2 OS", "U2-OS"}},
				{Canonical: "COS-7", Aliases: []string{"COS7"}},
				{Canonical: "NIH 3T3", Aliases: []string{"NIH-3T3", "3T3 fibroblasts"}},
				{Canonical: "MDCK", Aliases: []string{"MDCK cells"}},
				{Canonical: "CHO", Aliases: []string{"CHO cells", "CHO-K1"}},
				{Canonical: "SH-SY5Y", Aliases: []string{"SHSY5Y"}},
				{Canonical: "MCF-7", Aliases: []string{"MCF7"}},
				{Canonical: "A549", Aliases: []string{}},
				{Canonical: "RPE-1", Aliases: []string{"hTERT RPE-1", "RPE1"}},
				{Canonical: "Jurkat", Aliases: []string{"Jurkat cells"}},
			},
		},
		CategorySamplePreparation: {
			Entries: []Entry{
				{Canonical: "Immunofluorescence Staining", Aliases: []string{"immunofluorescence", "IF staining", "immunostaining"}},
				{Canonical: "Paraformaldehyde Fixation", Aliases: []string{"PFA fixation", "4% PFA", "paraformaldehyde-fixed"}},
				{Canonical: "Methanol Fixation", Aliases: []string{"methanol-fixed", "ice-cold methanol"}},
				{Canonical: "Glutaraldehyde Fixation", Aliases: []string{"glutaraldehyde-fixed"}},
				{Canonical: "Triton Permeabilization", Aliases: []string{"Triton X-100 permeabilization", "permeabilized with Triton"}},
				{Canonical: "Cryosectioning", Aliases: []string{"cryosections", "cryostat sections"}},
				{Canonical: "Vibratome Sectioning", Aliases: []string{"vibratome sections"}},
				{Canonical: "Paraffin Embedding", Aliases: []string{"FFPE", "paraffin-embedded"}},
				{Canonical: "Antigen Retrieval", Aliases: []string{"heat-induced epitope retrieval", "HIER"}},
				{Canonical: "Optical Clearing", Aliases: []string{"tissue clearing", "CLARITY", "iDISCO", "CUBIC clearing"}},
				{Canonical: "Negative Staining", Aliases: []string{"negative stain", "negatively stained"}},
				{Canonical: "High-Pressure Freezing", Aliases: []string{"high pressure frozen", "HPF"}},
				{Canonical: "Plunge Freezing", Aliases: []string{"plunge-frozen", "vitrification"}},
				{Canonical: "Ultramicrotomy", Aliases: []string{"ultrathin sections", "ultramicrotome"}},
				{Canonical: "Critical Point Drying", Aliases: []string{"critical-point dried"}},
				{Canonical: "Sputter Coating", Aliases: []string{"sputter-coated"}},
			},
		},
		CategoryInstitutions: {
			HideEmpty: true,
			Entries: []Entry{
				{Canonical: "Massachusetts Institute of Technology", Aliases: []string{"MIT"}, ExternalID: "ror.org/042nb2s44"},
				{Canonical: "Harvard University", Aliases: []string{"Harvard", "Harvard Medical School"}, ExternalID: "ror.org/03vek6s52"},
				{Canonical: "Stanford University", Aliases: []string{"Stanford", "Stanford School of Medicine"}, ExternalID: "ror.org/00f54p054"},
				{Canonical: "University of California, San Francisco", Aliases: []string{"UCSF", "UC San Francisco"}, ExternalID: "ror.org/043mz5j54"},
				{Canonical: "University of California, Berkeley", Aliases: []string{"UC Berkeley", "Berkeley"}, ExternalID: "ror.org/01an7q238"},
				{Canonical: "Yale University", Aliases: []string{"Yale", "Yale School of Medicine"}, ExternalID: "ror.org/03v76x132"},
				{Canonical: "Max Planck Society", Aliases: []string{"Max Planck Institute", "Max-Planck-Institut", "MPI"}, ExternalID: "ror.org/01hhn8329"},
				{Canonical: "European Molecular Biology Laboratory", Aliases: []string{"EMBL", "EMBL Heidelberg"}, ExternalID: "ror.org/03mstc592"},
				{Canonical: "Janelia Research Campus", Aliases: []string{"HHMI Janelia", "Janelia Farm"}, ExternalID: "ror.org/013sk6x84"},
				{Canonical: "University of Oxford", Aliases: []string{"Oxford University"}, ExternalID: "ror.org/052gg0110"},
				{Canonical: "University of Cambridge", Aliases: []string{"Cambridge University"}, ExternalID: "ror.org/013meh722"},
				{Canonical: "ETH Zurich", Aliases: []string{"ETH Zürich", "Swiss Federal Institute of Technology"}, ExternalID: "ror.org/05a28rw58"},
				{Canonical: "Institut Pasteur", Aliases: []string{"Pasteur Institute"}, ExternalID: "ror.org/0495fxg12"},
				{Canonical: "RIKEN", Aliases: []string{}, ExternalID: "ror.org/01sjwvz98"},
				{Canonical: "Karolinska Institutet", Aliases: []string{"Karolinska Institute"}, ExternalID: "ror.org/056d84691"},
				{Canonical: "Francis Crick Institute", Aliases: []string{"The Crick"}, ExternalID: "ror.org/04tnbqb63"},
				{Canonical: "National Institutes of Health", Aliases: []string{"NIH", "NIBIB"}, ExternalID: "ror.org/01cwqze88"},
			},
		},
		CategoryProtocols: {
			HideEmpty: true,
			Entries: []Entry{
				{Canonical: "protocols.io", Aliases: []string{"protocols io"}, Patterns: []string{`dx\.doi\.org/10\.17504/protocols\.io\.\w+`}},
				{Canonical: "Nature Protocols", Aliases: []string{"Nat Protoc", "Nat. Protoc."}},
				{Canonical: "Bio-protocol", Aliases: []string{"Bio protocol", "Bioprotocol"}},
				{Canonical: "JoVE", Aliases: []string{"Journal of Visualized Experiments"}},
				{Canonical: "Current Protocols", Aliases: []string{"Curr Protoc"}},
				{Canonical: "STAR Protocols", Aliases: []string{"STAR Protoc"}},
			},
		},
		CategoryRepositories: {
			HideEmpty: true,
			Entries: []Entry{
				{Canonical: "BioImage Archive", Aliases: []string{"BioImage-Archive", "EBI BioImage Archive"}},
				{Canonical: "Image Data Resource", Aliases: []string{"IDR"}},
				{Canonical: "EMPIAR", Aliases: []string{"Electron Microscopy Public Image Archive"}},
				{Canonical: "Electron Microscopy Data Bank", Aliases: []string{"EMDB"}},
				{Canonical: "Protein Data Bank", Aliases: []string{"PDB", "wwPDB"}},
				{Canonical: "Zenodo", Aliases: []string{}},
				{Canonical: "Figshare", Aliases: []string{"figshare"}},
				{Canonical: "Dryad", Aliases: []string{"Dryad Digital Repository"}},
				{Canonical: "OMERO", Aliases: []string{"OMERO server"}},
				{Canonical: "GitHub", Aliases: []string{"github.com"}},
				{Canonical: "Addgene", Aliases: []string{"addgene.org"}},
			},
		},
		CategoryRRIDs: {
			HideEmpty: true,
			Entries: []Entry{
				// The tag is the identifier itself, not a display name.
				{Canonical: "RRID", Patterns: []string{`RRID:\s?[A-Z]+_[A-Za-z0-9_:-]+`, `RRID:\s?CVCL[_:][A-Za-z0-9]+`}, EmitMatch: true},
			},
		},
		CategoryRORs: {
			HideEmpty: true,
			Entries: []Entry{
				{Canonical: "ROR", Patterns: []string{`(?:https?://)?ror\.org/0[a-z0-9]{6}[0-9]{2}`}, EmitMatch: true},
			},
		},
	}
}
