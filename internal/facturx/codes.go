package facturx

// CII namespaces used by the Factur-X / ZUGFeRD profile
const (
	NamespaceRSM = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	NamespaceRAM = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	NamespaceUDT = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
)

// ProfileEN16931 is the guideline identifier for the EN 16931 profile
const ProfileEN16931 = "urn:cen.eu:en16931:2017"

// UNTDID 1001 document type: commercial invoice
const TypeCodeCommercialInvoice = "380"

// Date format qualifier for CCYYMMDD
const DateFormatCCYYMMDD = "102"

// UN/ECE Recommendation 20 unit: "one" (unit/piece)
const UnitCodeOne = "C62"

// Tax type per UNTDID 5153
const TaxTypeVAT = "VAT"

// Tax categories per UNTDID 5305
const (
	TaxCategoryStandard = "S"
	TaxCategoryExempt   = "E"
)

// VATEX exemption reason for the French franchise regime (art. 293 B CGI)
const ExemptionFranchise = "VATEX-FR-FRANCHISE"

// Payment means per UNTDID 4461
const (
	PaymentMeansCash               = "10"
	PaymentMeansCheque             = "20"
	PaymentMeansSEPACreditTransfer = "58"
)

// ICD scheme identifiers for party global IDs
const (
	SchemeSIRET = "0009"
	SchemeSIREN = "0002"
)

// AttachmentName is the XML attachment name mandated by the Factur-X
// container conventions
const AttachmentName = "factur-x.xml"
